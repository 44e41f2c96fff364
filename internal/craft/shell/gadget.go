package shell

// ANSI escape sequences for the interactive session. Color is dropped
// entirely when disabled so output stays pipe-friendly.
const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiDim    = "\x1b[2m"
)

type gadget struct {
	color bool
}

func (g gadget) wrap(code, s string) string {
	if !g.color {
		return s
	}
	return code + s + ansiReset
}

func (g gadget) good(s string) string   { return g.wrap(ansiGreen, s) }
func (g gadget) bad(s string) string    { return g.wrap(ansiRed, s) }
func (g gadget) warn(s string) string   { return g.wrap(ansiYellow, s) }
func (g gadget) accent(s string) string { return g.wrap(ansiCyan, s) }
func (g gadget) dim(s string) string    { return g.wrap(ansiDim, s) }
