package boardcfg

import "embed"

//go:embed definitions/*.yaml
var builtinDefinitions embed.FS

func init() {
	if err := defaultRegistry.RegisterFS(builtinDefinitions, "definitions"); err != nil {
		panic(err)
	}
}
