package safe

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

// ErrInvalidRegex is returned when a regex pattern cannot be compiled.
var ErrInvalidRegex = errors.New("invalid regular expression")

// maxCacheSize is the upper bound for cached compiled regex patterns.
// When this limit is reached, the entire cache is cleared to prevent
// unbounded memory growth from dynamic user-provided patterns.
const maxCacheSize = 1024

// regexCache caches compiled regex patterns for performance.
// Protected by regexMu; bounded to maxCacheSize entries.
var (
	regexMu    sync.RWMutex
	regexCache = make(map[string]*regexp.Regexp)
)

// cacheLoad returns a cached regex and true if it exists, or nil and false.
func cacheLoad(key string) (*regexp.Regexp, bool) {
	regexMu.RLock()
	defer regexMu.RUnlock()

	re, ok := regexCache[key]

	return re, ok
}

// cacheStore stores a compiled regex, clearing the cache first if it is full.
func cacheStore(key string, re *regexp.Regexp) {
	regexMu.Lock()
	defer regexMu.Unlock()

	if len(regexCache) >= maxCacheSize {
		regexCache = make(map[string]*regexp.Regexp)
	}

	regexCache[key] = re
}

// Compile compiles a regex pattern with error return instead of panic.
// Compiled patterns are cached for performance.
func Compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := cacheLoad(pattern); ok {
		return cached, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRegex, err)
	}

	cacheStore(pattern, re)

	return re, nil
}

// CompilePrefix compiles a pattern anchored at the start of the input, so a
// match succeeds when the pattern matches a prefix of the input rather than
// the whole string. Compiled patterns are cached under a dedicated key.
func CompilePrefix(pattern string) (*regexp.Regexp, error) {
	cacheKey := "prefix:" + pattern

	if cached, ok := cacheLoad(cacheKey); ok {
		return cached, nil
	}

	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRegex, err)
	}

	cacheStore(cacheKey, re)

	return re, nil
}

// MatchPrefix reports whether pattern matches at the start of input.
// Returns an error if the pattern is invalid.
//
// Example:
//
//	matched, err := safe.MatchPrefix(`hello`, "hello world")
//	if err != nil {
//	    return fmt.Errorf("invalid pattern: %w", err)
//	}
func MatchPrefix(pattern, input string) (bool, error) {
	re, err := CompilePrefix(pattern)
	if err != nil {
		return false, err
	}

	return re.MatchString(input), nil
}
