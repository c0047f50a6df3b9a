package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/gookit/color"

	"github.com/spaghettifunk/gamebase/editor"
	"github.com/spaghettifunk/gamebase/engine"
	"github.com/spaghettifunk/gamebase/engine/core"
	"github.com/spaghettifunk/gamebase/engine/reg"
	"github.com/spaghettifunk/gamebase/engine/serial"
	"github.com/spaghettifunk/gamebase/testbed"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		color.Printf("<red>error:</> %s\n", err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: gamebase [command]")
	fmt.Println("")
	fmt.Println("sample -out <file> [-legacy]                          Write the sample design")
	fmt.Println("tree <file>                                           Print the design tree")
	fmt.Println("props <file>                                          Print the registered properties")
	fmt.Println("convert -in <file> -out <file> [-legacy]              Re-encode a design")
	fmt.Println("edit -file <file> -node <id> -row <label> -value <v>  Edit one property and save")
	fmt.Println("watch [-config <file>] <file>                         Reload a design whenever it changes")
	fmt.Println("")
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("missing command")
	}

	command := args[0]
	switch command {
	case "sample":
		cmd := flag.NewFlagSet("sample", flag.ExitOnError)
		out := cmd.String("out", "", "output file")
		legacy := cmd.Bool("legacy", false, "write the legacy encoding")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		if *out == "" {
			return errors.New("requires -out <file>")
		}
		ed := newEditor(encodingSettings(*legacy))
		if err := ed.SetDesign(testbed.NewSampleDesign()); err != nil {
			return err
		}
		if err := ed.Save(*out); err != nil {
			return err
		}
		color.Printf("Wrote sample design to <green>%s</>\n", *out)

	case "tree":
		cmd := flag.NewFlagSet("tree", flag.ExitOnError)
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		ed, err := loadEditor(cmd.Arg(0))
		if err != nil {
			return err
		}
		printTree(ed)

	case "props":
		cmd := flag.NewFlagSet("props", flag.ExitOnError)
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		ed, err := loadEditor(cmd.Arg(0))
		if err != nil {
			return err
		}
		props, err := ed.Properties()
		if err != nil {
			return err
		}
		if props == nil {
			color.Printf("<yellow>%T has no properties</>\n", ed.Current())
			return nil
		}
		props.Walk(func(path string, p *reg.Property) bool {
			color.Printf("<cyan>%s</> <gray>(%s)</> = %s\n", path, p.Type(), p.String())
			return true
		})

	case "convert":
		cmd := flag.NewFlagSet("convert", flag.ExitOnError)
		in := cmd.String("in", "", "input file")
		out := cmd.String("out", "", "output file")
		legacy := cmd.Bool("legacy", false, "write the legacy encoding")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		if *in == "" || *out == "" {
			return errors.New("requires -in <file> and -out <file>")
		}
		ed := newEditor(encodingSettings(*legacy))
		if err := ed.Load(*in); err != nil {
			return err
		}
		if err := ed.Save(*out); err != nil {
			return err
		}
		color.Printf("Converted <green>%s</> to <green>%s</>\n", *in, *out)

	case "edit":
		cmd := flag.NewFlagSet("edit", flag.ExitOnError)
		file := cmd.String("file", "", "design file")
		node := cmd.Int("node", -1, "tree node id")
		row := cmd.String("row", "", "property label")
		value := cmd.String("value", "", "new value")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		if *file == "" || *node < 0 || *row == "" {
			return errors.New("requires -file <file> -node <id> -row <label>")
		}
		ed, err := loadEditor(*file)
		if err != nil {
			return err
		}
		if err := ed.EditByLabel(*node, *row, *value); err != nil {
			return err
		}
		if err := ed.Save(*file); err != nil {
			return err
		}
		color.Printf("Set <cyan>%s</> of node #%d to <green>%s</>\n", *row, *node, *value)

	case "watch":
		cmd := flag.NewFlagSet("watch", flag.ExitOnError)
		config := cmd.String("config", "editor.toml", "editor settings")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		settings, err := editor.LoadSettings(*config)
		if err != nil {
			return err
		}
		design := settings.Resolve(cmd.Arg(0))
		if design == "" {
			design = settings.Resolve(settings.DefaultDesign)
		}
		if design == "" {
			return errors.New("requires a design file")
		}
		settings.Watch = true
		return watch(settings, design)

	default:
		usage()
		return errors.Newf("unknown command %q", command)
	}
	return nil
}

func encodingSettings(legacy bool) editor.Settings {
	s := editor.DefaultSettings()
	if legacy {
		s.SaveEncoding = serial.Legacy.String()
	}
	return s
}

func newEditor(settings editor.Settings) *editor.Editor {
	settings.Apply()
	return editor.New(settings, nil)
}

func loadEditor(path string) (*editor.Editor, error) {
	if path == "" {
		return nil, errors.New("requires a design file")
	}
	ed := newEditor(editor.DefaultSettings())
	if err := ed.Load(path); err != nil {
		return nil, err
	}
	return ed, nil
}

func printTree(ed *editor.Editor) {
	ed.Tree().Walk(func(n *editor.TreeNode, depth int) bool {
		indent := strings.Repeat("  ", depth)
		color.Printf("%s<gray>#%d</> <green>%s</>\n", indent, n.ID, n.Label)
		if p, ok := ed.Menu().Panel(n.ID); ok {
			for _, r := range p.Rows {
				color.Printf("%s    <cyan>%s</> <gray>(%s)</> = %s\n", indent, r.Label, r.Type, r.Text)
			}
		}
		return true
	})
}

func watch(settings editor.Settings, design string) error {
	ed := newEditor(settings)
	g := testbed.NewEditorGame(ed, design, core.ParseLogLevel(settings.LogLevel))

	e, err := engine.New(g.Game)
	if err != nil {
		return err
	}
	if err := e.Initialize(); err != nil {
		return err
	}

	// signal channel to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	color.Printf("Watching <green>%s</>, press Ctrl+C to stop\n", design)
	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown failed: %s", err.Error())
	}
	return runErr
}
