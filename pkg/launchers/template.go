package launchers

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/syntax"
)

const posixShebang = "#!/bin/sh\n"

// Render returns the launcher's file content
func Render(l Launcher, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	switch opts.Flavor {
	case FlavorBatch:
		return renderBatch(l, opts), nil
	case FlavorPosix:
		return renderPosix(l, opts)
	}

	return nil, eris.Errorf("unknown launcher flavor %s", opts.Flavor)
}

// FileMode returns the permissions launchers of the given flavor are written with
func FileMode(flavor Flavor) os.FileMode {
	if flavor == FlavorPosix {
		return 0755
	}
	return 0644
}

func batchQuote(value string) string {
	// percent signs would otherwise be expanded as variables
	value = strings.ReplaceAll(value, "%", "%%")
	if strings.ContainsAny(value, " \t&()^=;,<>|") {
		return `"` + value + `"`
	}
	return value
}

func batchPath(value string) string {
	return strings.ReplaceAll(filepath.ToSlash(value), "/", `\`)
}

// interpreterArgs splits the interpreter into its words. A path containing spaces
// (i.e. C:\Program Files\Python\python.exe) is kept as one word that has to be quoted, which is reported
// by the second result. Values that are already quoted, pass flags ("py -3") or run a command through
// another one ("/usr/bin/env python3") are split on whitespace and written as is.
func interpreterArgs(value string) ([]string, bool) {
	value = strings.TrimSpace(value)
	fields := strings.Fields(value)
	if len(fields) < 2 || strings.ContainsAny(value[:1], `"'`) {
		return fields, false
	}

	for _, field := range fields[1:] {
		if strings.HasPrefix(field, "-") {
			return fields, false
		}
	}

	if !strings.ContainsAny(strings.Join(fields[1:], " "), `/\`) {
		return fields, false
	}

	return []string{value}, true
}

func renderBatch(l Launcher, opts Options) []byte {
	interpreter, quote := interpreterArgs(opts.Interpreter)
	run := strings.Join(interpreter, " ")
	if quote {
		run = `"` + run + `"`
	}

	activate := batchPath(path.Join(filepath.ToSlash(opts.VenvDir), "Scripts", "activate.bat"))
	lines := []string{
		"@echo off",
		"call " + batchQuote(activate),
		run + " " + batchQuote(l.Script) + " %*",
		"call deactivate",
	}

	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func shellWord(value string) (*syntax.Word, error) {
	quoted, err := syntax.Quote(value, syntax.LangPOSIX)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to quote %s", value)
	}

	return &syntax.Word{Parts: []syntax.WordPart{&syntax.Lit{Value: quoted}}}, nil
}

func shellCall(args ...*syntax.Word) *syntax.Stmt {
	return &syntax.Stmt{Cmd: &syntax.CallExpr{Args: args}}
}

func renderPosix(l Launcher, opts Options) ([]byte, error) {
	activate, err := shellWord(path.Join(filepath.ToSlash(opts.VenvDir), "bin", "activate"))
	if err != nil {
		return nil, err
	}

	script, err := shellWord(l.Script)
	if err != nil {
		return nil, err
	}

	// the interpreter may carry its own flags (i.e. "python3 -u") so it's only quoted if it is a single path
	interpreter, quote := interpreterArgs(opts.Interpreter)
	run := make([]*syntax.Word, 0, len(interpreter)+2)
	for _, part := range interpreter {
		word := &syntax.Word{Parts: []syntax.WordPart{&syntax.Lit{Value: part}}}
		if quote {
			word, err = shellWord(part)
			if err != nil {
				return nil, err
			}
		}
		run = append(run, word)
	}
	run = append(run, script, &syntax.Word{Parts: []syntax.WordPart{
		&syntax.DblQuoted{Parts: []syntax.WordPart{
			&syntax.ParamExp{Short: true, Param: &syntax.Lit{Value: "@"}},
		}},
	}})

	file := &syntax.File{
		Stmts: []*syntax.Stmt{
			shellCall(&syntax.Word{Parts: []syntax.WordPart{&syntax.Lit{Value: "."}}}, activate),
			shellCall(run...),
			shellCall(&syntax.Word{Parts: []syntax.WordPart{&syntax.Lit{Value: "deactivate"}}}),
		},
	}

	buffer := strings.Builder{}
	buffer.WriteString(posixShebang)
	err = syntax.NewPrinter().Print(&buffer, file)
	if err != nil {
		return nil, eris.Wrap(err, "failed to print launcher")
	}

	content := buffer.String()
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return []byte(content), nil
}
