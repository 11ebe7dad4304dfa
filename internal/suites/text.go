package suites

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"ctp/internal/catalog"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

func init() {
	register(Suite{
		Name:    "text",
		Library: "golang.org/x/text, github.com/mattn/go-runewidth",
		Cases:   textCases,
		Rules: []harness.Rule{
			harness.PrefixRule(harness.KindSyntax, "language: tag is not well-formed"),
		},
		Operations: []catalog.Operation{
			{Name: "text.Upper", Arity: 2, Bind: caserOperation(cases.Upper)},
			{Name: "text.Lower", Arity: 2, Bind: caserOperation(cases.Lower)},
			catalog.Unary("norm.NFC", catalog.StringArg, func(s string) (string, error) {
				return norm.NFC.String(s), nil
			}),
			catalog.Unary("runewidth.StringWidth", catalog.StringArg, func(s string) (int, error) {
				return (&runewidth.Condition{}).StringWidth(s), nil
			}),
		},
	})
}

// caserOperation takes a BCP 47 tag and the text to map
func caserOperation(newCaser func(language.Tag, ...cases.Option) cases.Caser) func(args []any) (catalog.Invocation, error) {
	return func(args []any) (catalog.Invocation, error) {
		tag, err := catalog.StringArg(args, 0)
		if err != nil {
			return nil, err
		}
		s, err := catalog.StringArg(args, 1)
		if err != nil {
			return nil, err
		}
		// A malformed tag is an observed x/text error, so parsing stays in the invocation
		return func() (any, error) {
			t, err := language.Parse(tag)
			if err != nil {
				return nil, err
			}
			return newCaser(t).String(s), nil
		}, nil
	}
}

// upperCamel converts UPPER_UNDERSCORE words to UpperCamel by title casing each word
func upperCamel(s string) string {
	title := cases.Title(language.Und)
	words := strings.Split(s, "_")
	for i, w := range words {
		words[i] = title.String(w)
	}
	return strings.Join(words, "")
}

// narrow is a fixture with East Asian ambiguous runes one cell wide, whatever the locale
func narrow() *runewidth.Condition {
	return &runewidth.Condition{}
}

func textCases() []harness.Case {
	const suite = "text"
	caser := func(c cases.Caser, s string) func(any) (any, error) {
		return harness.CallValue(func() string { return c.String(s) })
	}
	return []harness.Case{
		{
			Suite: suite, Name: "upper-ascii", Partition: domain.PartitionHappy,
			Invoke: caser(cases.Upper(language.Und), "hello world!"),
			Expect: harness.Returns("HELLO WORLD!"),
		},
		{
			Suite: suite, Name: "upper-turkish-dotted-i", Partition: domain.PartitionBoundary,
			Invoke: caser(cases.Upper(language.Turkish), "i with dot"),
			Expect: harness.Returns("\u0130 W\u0130TH DOT"),
		},
		{
			Suite: suite, Name: "title-english", Partition: domain.PartitionHappy,
			Invoke: caser(cases.Title(language.English), "hello world!"),
			Expect: harness.Returns("Hello World!"),
		},
		{
			Suite: suite, Name: "underscore-to-camel-single-letters", Partition: domain.PartitionBoundary,
			Invoke: harness.CallValue(func() string { return upperCamel("H_T_T_P") }),
			Expect: harness.Returns("HTTP"),
		},
		{
			Suite: suite, Name: "underscore-to-camel-lowers-tail", Partition: domain.PartitionHappy,
			Invoke: harness.CallValue(func() string { return upperCamel("HTTP_SERVER") }),
			Expect: harness.Returns("HttpServer"),
		},
		{
			Suite: suite, Name: "underscore-to-camel-empty", Partition: domain.PartitionEmpty,
			Invoke: harness.CallValue(func() string { return upperCamel("") }),
			Expect: harness.Returns(""),
		},
		{
			Suite: suite, Name: "lower-empty", Partition: domain.PartitionEmpty,
			Invoke: caser(cases.Lower(language.Und), ""),
			Expect: harness.Returns(""),
		},
		{
			Suite: suite, Name: "nfc-composes", Partition: domain.PartitionHappy,
			Invoke: harness.CallValue(func() string { return norm.NFC.String("e\u0301") }),
			Expect: harness.Returns("\u00e9"),
		},
		{
			Suite: suite, Name: "nfd-decomposes", Partition: domain.PartitionHappy,
			Invoke: harness.CallValue(func() string { return norm.NFD.String("\u00e9") }),
			Expect: harness.Returns("e\u0301"),
		},
		{
			Suite: suite, Name: "nfc-idempotent", Partition: domain.PartitionBoundary,
			Invoke: harness.CallValue(func() bool {
				once := norm.NFC.String("A\u0323\u030a")
				return norm.NFC.String(once) == once && norm.NFC.IsNormalString(once)
			}),
			Expect: harness.Returns(true),
			Repeat: 3,
		},
		harness.Typed(suite, "width-cjk", domain.PartitionHappy, narrow,
			func(c *runewidth.Condition) (int, error) { return c.StringWidth("日本語"), nil },
			harness.Returns(6),
		),
		harness.Typed(suite, "width-empty", domain.PartitionEmpty, narrow,
			func(c *runewidth.Condition) (int, error) { return c.StringWidth(""), nil },
			harness.Returns(0),
		),
		harness.Typed(suite, "width-combining-mark", domain.PartitionBoundary, narrow,
			func(c *runewidth.Condition) (int, error) { return c.StringWidth("e\u0301"), nil },
			harness.Returns(1),
		),
		harness.Typed(suite, "truncate-wide-runes", domain.PartitionBoundary, narrow,
			func(c *runewidth.Condition) (string, error) { return c.Truncate("日本語", 5, "..."), nil },
			harness.Returns("日..."),
		),
		harness.Typed(suite, "truncate-negative-width", domain.PartitionOverflow, narrow,
			func(c *runewidth.Condition) (string, error) { return c.Truncate("日本語", -1, "..."), nil },
			harness.Returns("..."),
		),
		harness.Typed(suite, "ambiguous-width-east-asian", domain.PartitionBoundary,
			func() *runewidth.Condition { return &runewidth.Condition{EastAsianWidth: true} },
			func(c *runewidth.Condition) (int, error) { return c.RuneWidth('\u2026'), nil },
			harness.Returns(2),
		),
		harness.Typed(suite, "ambiguous-width-narrow", domain.PartitionBoundary, narrow,
			func(c *runewidth.Condition) (int, error) { return c.RuneWidth('\u2026'), nil },
			harness.Returns(1),
		),
		{
			Suite: suite, Name: "parse-empty-tag", Partition: domain.PartitionEmpty,
			Invoke: harness.Call(func() (language.Tag, error) { return language.Parse("") }),
			Expect: harness.Fails(harness.KindSyntax, "not well-formed"),
		},
		{
			Suite: suite, Name: "parse-malformed-tag", Partition: domain.PartitionMalformed,
			Invoke: harness.Call(func() (language.Tag, error) { return language.Parse("en-") }),
			Expect: harness.Fails(harness.KindSyntax, "not well-formed"),
		},
	}
}
