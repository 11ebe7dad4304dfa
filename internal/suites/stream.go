package suites

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"ctp/internal/catalog"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

func classifyStreamError(err error) (harness.Kind, bool) {
	switch {
	case errors.Is(err, bufio.ErrTooLong), errors.Is(err, bufio.ErrBufferFull):
		return harness.KindOutOfRange, true
	case errors.Is(err, bufio.ErrNegativeCount),
		errors.Is(err, bufio.ErrInvalidUnreadByte),
		errors.Is(err, bufio.ErrInvalidUnreadRune):
		return harness.KindInvalidArgument, true
	}
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "strings.Reader."), strings.HasPrefix(msg, "bytes.Reader."):
		return harness.KindInvalidArgument, true
	case strings.HasPrefix(msg, "bytes.Buffer") && strings.Contains(msg, "out of range"):
		return harness.KindOutOfRange, true
	case strings.HasPrefix(msg, "bytes.Buffer"), strings.HasPrefix(msg, "bytes: negative"),
		strings.HasPrefix(msg, "strings: negative"):
		return harness.KindInvalidArgument, true
	}
	return "", false
}

func init() {
	register(Suite{
		Name:    "stream",
		Library: "io, bufio, bytes, strings",
		Cases:   streamCases,
		Rules:   []harness.Rule{classifyStreamError},
		Operations: []catalog.Operation{
			{
				// reads n bytes of the string and returns what was read
				Name:  "io.ReadFull",
				Arity: 2,
				Bind: func(args []any) (catalog.Invocation, error) {
					s, err := catalog.StringArg(args, 0)
					if err != nil {
						return nil, err
					}
					n, err := catalog.IntArg(args, 1)
					if err != nil {
						return nil, err
					}
					if n < 0 {
						return nil, fmt.Errorf("%w: negative length %d", catalog.ErrArgument, n)
					}
					return func() (any, error) {
						buf := make([]byte, n)
						read, err := io.ReadFull(strings.NewReader(s), buf)
						return string(buf[:read]), err
					}, nil
				},
			},
			{
				// counts lines with the token size capped at max bytes
				Name:  "bufio.ScanLines",
				Arity: 2,
				Bind: func(args []any) (catalog.Invocation, error) {
					s, err := catalog.StringArg(args, 0)
					if err != nil {
						return nil, err
					}
					limit, err := catalog.IntArg(args, 1)
					if err != nil {
						return nil, err
					}
					if limit <= 0 {
						return nil, fmt.Errorf("%w: max token size must be positive", catalog.ErrArgument)
					}
					return func() (any, error) { return countLines(s, int(limit)) }, nil
				},
			},
		},
	})
}

func countLines(s string, limit int) (int, error) {
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Buffer(make([]byte, 0, limit), limit)
	lines := 0
	for sc.Scan() {
		lines++
	}
	return lines, sc.Err()
}

// drained calls read repeatedly and requires every call to report what the first one did
func drained(calls int, read func() (int, error)) (int, error) {
	n, err := read()
	for i := 2; i <= calls; i++ {
		gotN, gotErr := read()
		if gotN != n || !errors.Is(gotErr, err) {
			return gotN, fmt.Errorf("call %d returned (%d, %v), first call returned (%d, %v)", i, gotN, gotErr, n, err)
		}
	}
	return n, err
}

func streamCases() []harness.Case {
	const suite = "stream"
	return []harness.Case{
		harness.Typed(suite, "strings-reader-empty-read", domain.PartitionEmpty,
			func() *strings.Reader { return strings.NewReader("") },
			func(r *strings.Reader) (int, error) {
				buf := make([]byte, 8)
				return drained(3, func() (int, error) { return r.Read(buf) })
			},
			harness.Fails(harness.KindEOF, "EOF"),
		),
		harness.Typed(suite, "strings-reader-exhausted-read", domain.PartitionBoundary,
			func() *strings.Reader {
				r := strings.NewReader("abc")
				_, _ = io.Copy(io.Discard, r)
				return r
			},
			func(r *strings.Reader) (int, error) {
				buf := make([]byte, 8)
				return drained(3, func() (int, error) { return r.Read(buf) })
			},
			harness.Fails(harness.KindEOF, "EOF"),
		),
		harness.Typed(suite, "strings-reader-zero-length-read-at-end", domain.PartitionEmpty,
			func() *strings.Reader { return strings.NewReader("") },
			func(r *strings.Reader) (int, error) {
				return drained(3, func() (int, error) { return r.Read(nil) })
			},
			harness.Fails(harness.KindEOF, "EOF"),
		),
		harness.Typed(suite, "bytes-buffer-empty-read", domain.PartitionEmpty,
			func() *bytes.Buffer { return new(bytes.Buffer) },
			func(b *bytes.Buffer) (int, error) {
				buf := make([]byte, 4)
				return drained(3, func() (int, error) { return b.Read(buf) })
			},
			harness.Fails(harness.KindEOF, "EOF"),
		),
		harness.Typed(suite, "limit-reader-zero", domain.PartitionBoundary,
			func() io.Reader { return io.LimitReader(strings.NewReader("data"), 0) },
			func(r io.Reader) (int, error) {
				buf := make([]byte, 4)
				return drained(2, func() (int, error) { return r.Read(buf) })
			},
			harness.Fails(harness.KindEOF, "EOF"),
		),
		harness.Typed(suite, "strings-reader-readbyte-exhausted", domain.PartitionEmpty,
			func() *strings.Reader { return strings.NewReader("") },
			func(r *strings.Reader) (byte, error) { return r.ReadByte() },
			harness.Fails(harness.KindEOF, "EOF"),
		),
		harness.Typed(suite, "strings-reader-unread-at-start", domain.PartitionBoundary,
			func() *strings.Reader { return strings.NewReader("abc") },
			func(r *strings.Reader) (any, error) { return nil, r.UnreadByte() },
			harness.Fails(harness.KindInvalidArgument, "at beginning of string"),
		),
		harness.Typed(suite, "strings-reader-negative-seek", domain.PartitionMalformed,
			func() *strings.Reader { return strings.NewReader("abc") },
			func(r *strings.Reader) (int64, error) { return r.Seek(-1, io.SeekStart) },
			harness.Fails(harness.KindInvalidArgument, "negative position"),
		),
		harness.Typed(suite, "strings-reader-seek-past-end", domain.PartitionOverflow,
			func() *strings.Reader { return strings.NewReader("abc") },
			func(r *strings.Reader) (int, error) {
				if _, err := r.Seek(10, io.SeekStart); err != nil {
					return 0, err
				}
				return r.Read(make([]byte, 1))
			},
			harness.Fails(harness.KindEOF, "EOF"),
		),
		{
			Suite: suite, Name: "readfull-short-source", Partition: domain.PartitionBoundary,
			Invoke: harness.Call(func() (int, error) {
				return io.ReadFull(strings.NewReader("ab"), make([]byte, 4))
			}),
			Expect: harness.Fails(harness.KindEOF, "unexpected EOF"),
			Repeat: 3,
		},
		{
			Suite: suite, Name: "readfull-empty-source", Partition: domain.PartitionEmpty,
			Invoke: harness.CallValue(func() bool {
				_, err := io.ReadFull(strings.NewReader(""), make([]byte, 4))
				return err == io.EOF
			}),
			Expect: harness.Returns(true),
		},
		{
			Suite: suite, Name: "copyn-short-source", Partition: domain.PartitionOverflow,
			Invoke: harness.Call(func() (int64, error) {
				return io.CopyN(io.Discard, strings.NewReader("abc"), 5)
			}),
			Expect: harness.Fails(harness.KindEOF, "EOF"),
		},
		{
			Suite: suite, Name: "scanner-token-too-long", Partition: domain.PartitionOverflow,
			Invoke: harness.Call(func() (int, error) { return countLines("short\nmuch-too-long-line\n", 8) }),
			Expect: harness.Fails(harness.KindOutOfRange, "token too long"),
			Repeat: 2,
		},
		{
			Suite: suite, Name: "scanner-empty-input", Partition: domain.PartitionEmpty,
			Invoke: harness.Call(func() (int, error) { return countLines("", 8) }),
			Expect: harness.Returns(0),
		},
		{
			Suite: suite, Name: "scanner-missing-final-newline", Partition: domain.PartitionHappy,
			Invoke: harness.Call(func() (int, error) { return countLines("a\nb", 8) }),
			Expect: harness.Returns(2),
		},
		harness.Typed(suite, "bufio-peek-past-buffer", domain.PartitionOverflow,
			func() *bufio.Reader { return bufio.NewReaderSize(strings.NewReader("short"), 16) },
			func(r *bufio.Reader) ([]byte, error) { return r.Peek(32) },
			harness.Fails(harness.KindOutOfRange, "buffer full"),
		),
		harness.Typed(suite, "bufio-peek-negative", domain.PartitionMalformed,
			func() *bufio.Reader { return bufio.NewReader(strings.NewReader("abc")) },
			func(r *bufio.Reader) ([]byte, error) { return r.Peek(-1) },
			harness.Fails(harness.KindInvalidArgument, "negative count"),
		),
		harness.Typed(suite, "bufio-unread-before-read", domain.PartitionBoundary,
			func() *bufio.Reader { return bufio.NewReader(strings.NewReader("abc")) },
			func(r *bufio.Reader) (any, error) { return nil, r.UnreadByte() },
			harness.Fails(harness.KindInvalidArgument, "UnreadByte"),
		),
		{
			Suite: suite, Name: "bytes-repeat-negative", Partition: domain.PartitionMalformed,
			Invoke: harness.CallValue(func() []byte { return bytes.Repeat([]byte("a"), -1) }),
			Expect: harness.Panics(harness.KindInvalidArgument, "negative Repeat count"),
		},
		{
			Suite: suite, Name: "strings-repeat-zero", Partition: domain.PartitionBoundary,
			Invoke: harness.CallValue(func() string { return strings.Repeat("ab", 0) }),
			Expect: harness.Returns(""),
		},
		harness.Typed(suite, "bytes-buffer-truncate-out-of-range", domain.PartitionOverflow,
			func() *bytes.Buffer { return bytes.NewBufferString("abc") },
			func(b *bytes.Buffer) (any, error) {
				b.Truncate(4)
				return nil, nil
			},
			harness.Panics(harness.KindOutOfRange, "truncation out of range"),
		),
		harness.Typed(suite, "bytes-buffer-grow-negative", domain.PartitionMalformed,
			func() *bytes.Buffer { return new(bytes.Buffer) },
			func(b *bytes.Buffer) (any, error) {
				b.Grow(-1)
				return nil, nil
			},
			harness.Panics(harness.KindInvalidArgument, "negative count"),
		),
	}
}
