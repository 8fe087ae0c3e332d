package tool

import "slices"

// ExecSchemaCompiler runs a protoc-compatible compiler as
//
//	<Command> <Args...> --proto_path=<dir>... <OutFlag>=<outDir> <input>
type ExecSchemaCompiler struct {
	Command string
	Args    []string
	OutFlag string
	runner  *Runner
}

func NewExecSchemaCompiler(runner *Runner, command string, args []string, outFlag string) *ExecSchemaCompiler {
	return &ExecSchemaCompiler{Command: command, Args: args, OutFlag: outFlag, runner: runner}
}

func (c *ExecSchemaCompiler) Compile(input string, includeDirs []string, outDir string) error {
	return c.runner.Run(c.Command, c.args(input, includeDirs, outDir)...)
}

func (c *ExecSchemaCompiler) args(input string, includeDirs []string, outDir string) []string {
	args := slices.Clone(c.Args)
	for _, d := range includeDirs {
		args = append(args, "--proto_path="+d)
	}
	return append(args, c.OutFlag+"="+outDir, input)
}
