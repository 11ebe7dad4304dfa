package suites

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"ctp/internal/catalog"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

func init() {
	register(Suite{
		Name:    "config",
		Library: "github.com/BurntSushi/toml, gopkg.in/yaml.v3",
		Cases:   configCases,
		Rules: []harness.Rule{
			func(err error) (harness.Kind, bool) {
				var pe toml.ParseError
				if !errors.As(err, &pe) {
					return "", false
				}
				if strings.Contains(pe.Error(), "out of range") {
					return harness.KindOutOfRange, true
				}
				return harness.KindSyntax, true
			},
			func(err error) (harness.Kind, bool) {
				var te *yaml.TypeError
				if errors.As(err, &te) {
					return harness.KindInvalidArgument, true
				}
				return "", false
			},
			harness.PrefixRule(harness.KindSyntax, "yaml: "),
		},
		Operations: []catalog.Operation{
			catalog.Unary("toml.Decode", catalog.StringArg, func(s string) (map[string]any, error) {
				var out map[string]any
				_, err := toml.Decode(s, &out)
				return out, err
			}),
			catalog.Unary("yaml.Unmarshal", catalog.StringArg, func(s string) (map[string]any, error) {
				var out map[string]any
				err := yaml.Unmarshal([]byte(s), &out)
				return out, err
			}),
		},
	})
}

type serverConfig struct {
	Name string `toml:"name" yaml:"name"`
	Port int    `toml:"port" yaml:"port"`
}

type smallConfig struct {
	Port int8 `toml:"port"`
}

func configCases() []harness.Case {
	const suite = "config"
	return []harness.Case{
		{
			Suite: suite, Name: "toml-decode-struct", Partition: domain.PartitionHappy,
			Invoke: harness.Call(func() (serverConfig, error) {
				var cfg serverConfig
				_, err := toml.Decode("name = \"api\"\nport = 8080\n", &cfg)
				return cfg, err
			}),
			Expect: harness.Returns(serverConfig{Name: "api", Port: 8080}),
		},
		{
			Suite: suite, Name: "toml-undecoded-keys", Partition: domain.PartitionBoundary,
			Invoke: harness.Call(func() ([]string, error) {
				var cfg serverConfig
				md, err := toml.Decode("name = \"api\"\nextra = true\n", &cfg)
				if err != nil {
					return nil, err
				}
				var keys []string
				for _, k := range md.Undecoded() {
					keys = append(keys, k.String())
				}
				return keys, nil
			}),
			Expect: harness.Returns([]string{"extra"}),
		},
		{
			Suite: suite, Name: "toml-empty-document", Partition: domain.PartitionEmpty,
			Invoke: harness.Call(func() (serverConfig, error) {
				var cfg serverConfig
				_, err := toml.Decode("", &cfg)
				return cfg, err
			}),
			Expect: harness.Returns(serverConfig{}),
		},
		{
			Suite: suite, Name: "toml-missing-value", Partition: domain.PartitionMalformed,
			Invoke: harness.Call(func() (serverConfig, error) {
				var cfg serverConfig
				_, err := toml.Decode("name = \n", &cfg)
				return cfg, err
			}),
			Expect: harness.Fails(harness.KindSyntax, "toml: "),
		},
		{
			Suite: suite, Name: "toml-int8-overflow", Partition: domain.PartitionOverflow,
			Invoke: harness.Call(func() (smallConfig, error) {
				var cfg smallConfig
				_, err := toml.Decode("port = 300\n", &cfg)
				return cfg, err
			}),
			Expect: harness.Fails(harness.KindOutOfRange, "300 is out of range for int8"),
		},
		{
			Suite: suite, Name: "yaml-decode-struct", Partition: domain.PartitionHappy,
			Invoke: harness.Call(func() (serverConfig, error) {
				var cfg serverConfig
				err := yaml.Unmarshal([]byte("name: api\nport: 8080\n"), &cfg)
				return cfg, err
			}),
			Expect: harness.Returns(serverConfig{Name: "api", Port: 8080}),
		},
		{
			Suite: suite, Name: "yaml-empty-document", Partition: domain.PartitionEmpty,
			Invoke: harness.Call(func() (map[string]any, error) {
				var out map[string]any
				err := yaml.Unmarshal(nil, &out)
				return out, err
			}),
			Expect: harness.Returns(map[string]any(nil)),
		},
		{
			Suite: suite, Name: "yaml-unclosed-flow-sequence", Partition: domain.PartitionMalformed,
			Invoke: harness.CallErr(func() error {
				var out any
				return yaml.Unmarshal([]byte("a: [1, 2"), &out)
			}),
			Expect: harness.Fails(harness.KindSyntax, "did not find expected"),
		},
		{
			Suite: suite, Name: "yaml-duplicate-key", Partition: domain.PartitionMalformed,
			Invoke: harness.CallErr(func() error {
				var out map[string]int
				return yaml.Unmarshal([]byte("a: 1\na: 2\n"), &out)
			}),
			Expect: harness.Fails(harness.KindInvalidArgument, `mapping key "a" already defined`),
		},
		{
			Suite: suite, Name: "yaml-type-mismatch", Partition: domain.PartitionMalformed,
			Invoke: harness.CallErr(func() error {
				var cfg serverConfig
				return yaml.Unmarshal([]byte("port: eighty\n"), &cfg)
			}),
			Expect: harness.Fails(harness.KindInvalidArgument, "cannot unmarshal !!str `eighty` into int"),
		},
		{
			Suite: suite, Name: "yaml-null-value", Partition: domain.PartitionNull,
			Invoke: harness.Call(func() (map[string]any, error) {
				var out map[string]any
				err := yaml.Unmarshal([]byte("a: ~\n"), &out)
				return out, err
			}),
			Expect: harness.Returns(map[string]any{"a": nil}),
		},
	}
}
