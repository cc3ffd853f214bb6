package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/willibrandon/irisconns/internal/connfile"
	"github.com/willibrandon/irisconns/internal/conns"
	"github.com/willibrandon/irisconns/internal/prompt"
	"github.com/xlab/treeprint"
)

var (
	mutedFormat  = color.New(color.FgHiBlack).SprintFunc()
	boldFormat   = color.New(color.FgHiWhite).SprintFunc()
	goodFormat   = color.New(color.FgGreen).SprintFunc()
	badFormat    = color.New(color.FgHiRed).SprintFunc()
	accentFormat = color.New(color.FgHiMagenta).SprintFunc()
)

// renderSearchTree draws the candidate directories in search order with the
// files looked for in each. Existing files are numbered in the order they
// are read.
func renderSearchTree(dirs []string) string {
	tree := treeprint.NewWithRoot(boldFormat("search order"))

	n := 0
	for i, dir := range dirs {
		branch := tree.AddBranch(fmt.Sprintf("%s %s", mutedFormat(fmt.Sprintf("%d.", i+1)), dir))
		for _, name := range connfile.FileNames {
			path := filepath.Join(dir, name)
			if !connfile.IsRegularFile(path) {
				branch.AddNode(mutedFormat(name))
				continue
			}
			n++
			branch.AddNode(fmt.Sprintf("%s %s", goodFormat(name), accentFormat(fmt.Sprintf("[#%d]", n))))
		}
	}
	return tree.String()
}

// printConfig lists a resolved config's fields. Fields left empty are the
// ones an operator will be asked for.
func printConfig(w io.Writer, name string, cfg *conns.Config) {
	fmt.Fprintf(w, "%s %s\n", mutedFormat("#"), boldFormat(name))
	for _, f := range conns.Fields() {
		v := cfg.FieldValue(f.Key)
		if v == nil || v.Reveal() == "" {
			fmt.Fprintf(w, "%s: %s\n", prompt.PadLabel(f.Label), mutedFormat("(prompted)"))
			continue
		}
		f.Print(w, v)
	}
	fmt.Fprintf(w, "%s: %t\n", prompt.PadLabel("Confirm"), cfg.Confirm)
	fmt.Fprintf(w, "%s: %s\n", prompt.PadLabel("Key"), mutedFormat(string(cfg.IdentityKey())))
}
