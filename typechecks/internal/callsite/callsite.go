// Package callsite recovers the source text of argument expressions passed to
// an assertion call, by walking the live call stack to the first frame outside
// the library and tokenizing the caller's source file at the reported line.
//
// Recovery is best-effort: when the caller's source cannot be read (dynamic
// code, stripped binaries, relocated builds) Capture returns ErrUnavailable
// and callers fall back to a placeholder name. Recovery is only ever attempted
// on the failure path, and no source content is cached between captures.
package callsite

import (
	"bytes"
	"errors"
	"fmt"
	"go/scanner"
	"go/token"
	"os"
	"runtime"
	"strings"
	"sync"
)

// ErrUnavailable is returned when the call site's source text cannot be
// recovered. It is a degraded-but-valid outcome, never a reason to abort the
// assertion that triggered the capture.
var ErrUnavailable = errors.New("call site source unavailable")

// Call is an ephemeral view of the resolved caller's frame together with the
// recovered argument expressions, in left-to-right source order.
type Call struct {
	File     string
	Line     int
	Function string
	Args     []string
}

// internalFiles holds the source files belonging to this library. The stack
// walk skips every frame located in one of these files, so the capture always
// resolves to the caller's frame no matter how many internal helpers deep the
// capture was invoked from.
var (
	internalMu    sync.RWMutex
	internalFiles = make(map[string]struct{})
)

func init() {
	_, file, _, ok := runtime.Caller(0)
	if ok {
		internalFiles[file] = struct{}{}
	}
}

// RegisterInternalFile marks the calling file as library-internal so the
// stack walk in Capture skips its frames. Call it from an init function of
// every file that invokes Capture, directly or indirectly.
func RegisterInternalFile() {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return
	}

	internalMu.Lock()
	defer internalMu.Unlock()

	internalFiles[file] = struct{}{}
}

func isInternalFile(file string) bool {
	internalMu.RLock()
	defer internalMu.RUnlock()

	_, ok := internalFiles[file]

	return ok
}

// readSource reads the caller's source file. Replaceable via SetSourceReader
// so tests can fail reads or count them.
var (
	readerMu   sync.RWMutex
	readSource = os.ReadFile
)

// SetSourceReader replaces the function used to read caller source files and
// returns a restore function. Intended for tests.
func SetSourceReader(read func(name string) ([]byte, error)) (restore func()) {
	readerMu.Lock()
	defer readerMu.Unlock()

	previous := readSource
	readSource = read

	return func() {
		readerMu.Lock()
		defer readerMu.Unlock()

		readSource = previous
	}
}

func currentReader() func(name string) ([]byte, error) {
	readerMu.RLock()
	defer readerMu.RUnlock()

	return readSource
}

// maxCaptureDepth bounds the stack walk; assertion call chains are shallow.
const maxCaptureDepth = 64

// Capture resolves the first stack frame outside the library, skipping an
// additional skip frames above its own caller first, then recovers the
// argument expressions of the call whose function name begins with prefix.
//
// The returned Call is valid only when err is nil. All recovery failures
// short of a tokenizer contract violation are reported as ErrUnavailable.
func Capture(skip int, prefix string) (Call, error) {
	pcs := make([]uintptr, maxCaptureDepth)

	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return Call{}, fmt.Errorf("%w: empty call stack", ErrUnavailable)
	}

	frames := runtime.CallersFrames(pcs[:n])

	var caller runtime.Frame

	for {
		frame, more := frames.Next()
		if frame.File != "" && !isInternalFile(frame.File) {
			caller = frame
			break
		}

		if !more {
			break
		}
	}

	if caller.File == "" {
		return Call{}, fmt.Errorf("%w: no frame outside the library", ErrUnavailable)
	}

	src, err := currentReader()(caller.File)
	if err != nil {
		return Call{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	args, err := scanArguments(src, caller.Line, prefix)
	if err != nil {
		return Call{}, err
	}

	return Call{
		File:     caller.File,
		Line:     caller.Line,
		Function: caller.Function,
		Args:     args,
	}, nil
}

// scan states for locating the call and splitting its argument list.
const (
	stepFindIdent = iota
	stepExpectLParen
	stepCollect
)

// scanArguments tokenizes src starting at the given 1-based line, locates the
// first identifier beginning with prefix, and splits the following
// parenthesized argument list at top-level commas. Bracket depth is tracked
// across (, [ and { so nested literals and calls never split an argument.
//
// Argument text is sliced from the original source by token offsets, so
// spacing inside an argument is preserved exactly as written; newlines from
// wrapped calls are collapsed to single spaces.
func scanArguments(src []byte, line int, prefix string) ([]string, error) {
	offset := lineOffset(src, line)
	if offset < 0 {
		return nil, fmt.Errorf("%w: line %d beyond end of source", ErrUnavailable, line)
	}

	frag := src[offset:]

	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(frag))

	var sc scanner.Scanner

	sc.Init(file, frag, nil, 0)

	step := stepFindIdent
	depth := 0

	var args []string

	start, end := -1, -1

	flush := func() {
		if start < 0 {
			args = append(args, "")
			return
		}

		args = append(args, flattenExpr(frag[start:end]))
		start, end = -1, -1
	}

	for {
		pos, tok, lit := sc.Scan()
		if tok == token.EOF {
			return nil, fmt.Errorf("%w: call not terminated before end of source", ErrUnavailable)
		}

		switch step {
		case stepFindIdent:
			if tok == token.IDENT && strings.HasPrefix(lit, prefix) {
				step = stepExpectLParen
			}
		case stepExpectLParen:
			if tok != token.LPAREN {
				return nil, fmt.Errorf("%w: expected ( after %s identifier, got %s", ErrUnavailable, prefix, tok)
			}

			step = stepCollect
		case stepCollect:
			if tok == token.SEMICOLON {
				if lit == "\n" {
					// Automatic semicolon at a wrapped line, not source text.
					continue
				}

				if depth == 0 {
					return nil, fmt.Errorf("%w: statement ended before closing parenthesis", ErrUnavailable)
				}
			}

			switch tok {
			case token.COMMA:
				if depth == 0 {
					flush()
					continue
				}
			case token.LPAREN, token.LBRACK, token.LBRACE:
				depth++
			case token.RPAREN:
				if depth == 0 {
					// A pending argument is flushed; a bare trailing comma
					// (wrapped call style) is not an extra argument.
					if start >= 0 {
						flush()
					}

					return args, nil
				}

				depth--
			case token.RBRACK, token.RBRACE:
				depth--
				if depth < 0 {
					panic("typechecks/callsite: bracket nesting depth became negative while splitting arguments")
				}
			}

			tokenOffset := file.Offset(pos)
			if start < 0 {
				start = tokenOffset
			}

			end = tokenOffset + tokenLength(tok, lit)
		}
	}
}

// lineOffset returns the byte offset of the start of the 1-based line, or -1
// if src has fewer lines.
func lineOffset(src []byte, line int) int {
	if line < 1 {
		return -1
	}

	offset := 0

	for ; line > 1; line-- {
		next := bytes.IndexByte(src[offset:], '\n')
		if next < 0 {
			return -1
		}

		offset += next + 1
	}

	return offset
}

// tokenLength returns the byte length of the token's source text.
func tokenLength(tok token.Token, lit string) int {
	if lit != "" {
		return len(lit)
	}

	return len(tok.String())
}

// flattenExpr reconstitutes a sliced expression into a single line: embedded
// newlines collapse to one space, surrounding whitespace is trimmed.
func flattenExpr(src []byte) string {
	lines := strings.Split(string(src), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}

	return strings.TrimSpace(strings.Join(lines, " "))
}
