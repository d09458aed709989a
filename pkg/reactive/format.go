package reactive

import "fmt"

// Sprintf derives a string signal by formatting the current values of args
// with fmt.Sprintf. Arguments may be signals of different types.
//
//	name := reactive.NewBinding("World")
//	greeting := reactive.Sprintf("Hello, %s!", name)
func Sprintf(format string, args ...Source) *Computed[string] {
	return newComputed(args, func() string {
		values := make([]any, len(args))
		for i, a := range args {
			values[i] = a.currentAny()
		}
		return fmt.Sprintf(format, values...)
	})
}
