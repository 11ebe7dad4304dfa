package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ctp/internal/domain"
	"ctp/internal/harness"
)

// caseFile is the YAML layout of a declarative case file:
//
//	suite: strconv
//	cases:
//	  - name: atoi-empty
//	    partition: empty
//	    op: strconv.Atoi
//	    args: [""]
//	    repeat: 3
//	    expect:
//	      error: {kind: SYNTAX, contains: invalid syntax}
type caseFile struct {
	Suite string      `yaml:"suite"`
	Cases []yaml.Node `yaml:"cases"`
}

type caseEntry struct {
	Name      string               `yaml:"name"`
	Partition string               `yaml:"partition"`
	Op        string               `yaml:"op"`
	Args      []yaml.Node          `yaml:"args"`
	Repeat    int                  `yaml:"repeat"`
	Timeout   string               `yaml:"timeout"`
	Expect    map[string]yaml.Node `yaml:"expect"`
}

type failureEntry struct {
	Kind     string `yaml:"kind"`
	Contains string `yaml:"contains"`
}

// LoadFile parses one case file into cases
func LoadFile(path string) ([]harness.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}
	return ParseCaseFile(path, data)
}

// ParseCaseFile parses case file content; path names the source in results and errors
func ParseCaseFile(path string, data []byte) ([]harness.Case, error) {
	var file caseFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if file.Suite == "" {
		file.Suite = suiteFromFile(path)
	}

	cases := make([]harness.Case, 0, len(file.Cases))
	for i := range file.Cases {
		node := &file.Cases[i]
		c, err := buildCase(path, file.Suite, node)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, node.Line, err)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func buildCase(path, suite string, node *yaml.Node) (harness.Case, error) {
	var entry caseEntry
	if err := node.Decode(&entry); err != nil {
		return harness.Case{}, err
	}
	if entry.Name == "" {
		return harness.Case{}, errors.New("case has no name")
	}

	partition, err := domain.ParsePartition(entry.Partition)
	if err != nil {
		return harness.Case{}, fmt.Errorf("case %s: %w", entry.Name, err)
	}

	op, ok := LookupOperation(entry.Op)
	if !ok {
		return harness.Case{}, fmt.Errorf("case %s: unknown operation %q", entry.Name, entry.Op)
	}
	if len(entry.Args) != op.Arity {
		return harness.Case{}, fmt.Errorf("case %s: %s takes %d arguments, got %d", entry.Name, op.Name, op.Arity, len(entry.Args))
	}

	expect, err := buildOutcome(entry.Expect)
	if err != nil {
		return harness.Case{}, fmt.Errorf("case %s: %w", entry.Name, err)
	}

	var timeout time.Duration
	if entry.Timeout != "" {
		timeout, err = time.ParseDuration(entry.Timeout)
		if err != nil {
			return harness.Case{}, fmt.Errorf("case %s: invalid timeout: %w", entry.Name, err)
		}
	}

	args := entry.Args
	return harness.Case{
		Suite:     suite,
		Name:      entry.Name,
		Partition: partition,
		// Arguments are decoded and bound again for every attempt so no attempt sees another's
		// values. A bad argument is a fixture error, never an observation.
		Fixture: func() (any, error) {
			decoded, err := decodeArgs(args)
			if err != nil {
				return nil, err
			}
			return op.Bind(decoded)
		},
		Invoke:  harness.On(func(invoke Invocation) (any, error) { return invoke() }),
		Expect:  expect,
		Repeat:  entry.Repeat,
		Timeout: timeout,
		Source:  path,
	}, nil
}

func decodeArgs(nodes []yaml.Node) ([]any, error) {
	args := make([]any, len(nodes))
	for i := range nodes {
		if err := nodes[i].Decode(&args[i]); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
	}
	return args, nil
}

func buildOutcome(expect map[string]yaml.Node) (harness.Outcome, error) {
	if len(expect) != 1 {
		return nil, fmt.Errorf("expect needs exactly one of value, error, panic, succeeds; got %d keys", len(expect))
	}

	var key string
	var node yaml.Node
	for k, n := range expect {
		key, node = k, n
	}

	switch key {
	case "value":
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("expect.value: %w", err)
		}
		return harness.Renders(fmt.Sprint(v)), nil
	case "succeeds":
		var ok bool
		if err := node.Decode(&ok); err != nil || !ok {
			return nil, errors.New("expect.succeeds must be true")
		}
		return harness.Succeeds(), nil
	case "error", "panic":
		var f failureEntry
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("expect.%s: %w", key, err)
		}
		kind, err := harness.ParseKind(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("expect.%s: %w", key, err)
		}
		if key == "panic" {
			return harness.Panics(kind, f.Contains), nil
		}
		return harness.Fails(kind, f.Contains), nil
	default:
		return nil, fmt.Errorf("unknown expectation %q", key)
	}
}

// Loader discovers and parses every case file under a directory
type Loader struct {
	scanner *Scanner
}

// NewLoader creates a new Loader
func NewLoader(scanner *Scanner) *Loader {
	return &Loader{scanner: scanner}
}

// Load returns the cases of every case file under root
func (l *Loader) Load(root string) ([]harness.Case, error) {
	files, err := l.scanner.Scan(root)
	if err != nil {
		return nil, err
	}

	var cases []harness.Case
	for _, file := range files {
		loaded, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		cases = append(cases, loaded...)
	}
	return cases, nil
}
