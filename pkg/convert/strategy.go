// Package convert decides how an installed bower package becomes an AMD
// module and produces the module file.
//
// # Strategies
//
// The main file of every package is classified with [detect.Module]:
//
//   - [Shim]: the file does not call define. Its source is wrapped in a
//     define call that lists the package's bower dependencies and returns
//     the global the file exports.
//   - [Adapter]: the file calls define but depends on relative ids, which
//     break once the module is loaded from outside its directory. A one-line
//     module that requires the original file in place is written instead.
//   - [Copy]: the file is a self-contained AMD module and is copied as is.
//   - [Ignored]: packages in the ignore set (requirejs itself, plus any
//     configured names) are skipped without side effects.
//
// # Usage
//
//	conv := convert.New(convert.Config{
//	    Resolver: mainfile.NewResolver(prompter, answers, logger),
//	    Writer:   output.NewWriter(output.WithLogger(logger)),
//	    Prompter: prompter,
//	    Answers:  answers,
//	    Logger:   logger,
//	})
//	res, err := conv.Convert(ctx, pkg)
package convert

// Strategy is the conversion chosen for a package.
type Strategy int

const (
	Ignored Strategy = iota
	Shim
	Adapter
	Copy
)

// Strategies lists every strategy in display order.
var Strategies = []Strategy{Shim, Adapter, Copy, Ignored}

// String returns the lowercase strategy name.
func (s Strategy) String() string {
	switch s {
	case Ignored:
		return "ignored"
	case Shim:
		return "shim"
	case Adapter:
		return "adapter"
	case Copy:
		return "copy"
	default:
		return "unknown"
	}
}

// DefaultIgnore holds packages that are never converted. The loader cannot
// be loaded through itself.
var DefaultIgnore = []string{"requirejs"}
