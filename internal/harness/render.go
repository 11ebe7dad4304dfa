package harness

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                6,
}

// Detail renders a failed attempt for the failure viewer
func Detail(obs Observation, mismatchErr error, attempt int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", mismatchErr)
	if attempt > 1 {
		fmt.Fprintf(&b, "attempt: %d (earlier attempts matched)\n", attempt)
	}

	switch {
	case obs.Panic != nil:
		fmt.Fprintf(&b, "\npanic value:\n%s", dumper.Sdump(obs.Panic.Value))
		fmt.Fprintf(&b, "\nstack:\n%s", obs.Panic.Stack)
	case obs.Err != nil:
		fmt.Fprintf(&b, "\nerror chain:\n")
		for err := obs.Err; err != nil; err = unwrapOne(err) {
			fmt.Fprintf(&b, "  %T: %s\n", err, err)
		}
	default:
		fmt.Fprintf(&b, "\nvalue:\n%s", dumper.Sdump(obs.Value))
	}
	if obs.Fixture != nil {
		fmt.Fprintf(&b, "\nfixture:\n%s", dumper.Sdump(obs.Fixture))
	}
	return b.String()
}

func unwrapOne(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return nil
}
