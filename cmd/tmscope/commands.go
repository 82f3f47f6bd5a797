package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/tmscope/internal/grammar"
	"github.com/dshills/tmscope/internal/termstyle"
	"github.com/dshills/tmscope/internal/theme"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func newListCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the themes found in the theme directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("watch") {
				watch = a.cfg.Watch
			}
			if err := a.printCatalog(out); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return a.registry.Watch(cmd.Context(), func(string) {
				fmt.Fprintln(out)
				_ = a.printCatalog(out)
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and reprint when themes change (default from config)")
	return cmd
}

func (a *app) printCatalog(out io.Writer) error {
	tw := newTable(out)
	fmt.Fprintln(tw, "KEY\tNAME\tFORMAT\tPATH")
	for _, e := range a.registry.Catalog().All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Key, e.Name, e.Format, e.Path)
	}
	return tw.Flush()
}

func newMatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "match THEME SCOPE...",
		Short: "Show the theme rules matching a scope chain",
		Long: `Show the candidate rules a theme yields for a scope chain given outermost
first, in the order they are considered: the theme's own rules innermost scope
first, then the rules of the theme it includes.`,
		Example: "  tmscope match monokai source.js string.quoted.double.js",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := a.loadTheme(args[0])
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "#\tNAME\tDEPTH\tPARENTS\tFONT\tFG\tBG")
			for i, r := range th.Match(args[1:]) {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
					i, orDash(r.Name), r.ScopeDepth, orDash(strings.Join(r.ParentScopes, " ")),
					r.FontStyle, colorOf(th, r.Foreground), colorOf(th, r.Background))
			}
			return tw.Flush()
		},
	}
}

func newAttrsCmd(a *app) *cobra.Command {
	var (
		languageID int
		embedded   map[string]int
	)
	cmd := &cobra.Command{
		Use:   "attrs THEME SCOPEPATH...",
		Short: "Resolve the token attributes of every scope on a scope path",
		Long: `Push a space separated scope path onto a fresh attributed scope stack and
print the token attributes resolved at each level, along with the terminal
colors they map to. The first scope is the grammar's root scope.`,
		Example: `  tmscope attrs monokai "text.html.basic meta.embedded.block.css source.css" --embedded source.css=2`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := a.loadTheme(args[0])
			if err != nil {
				return err
			}
			scopes := strings.Fields(strings.Join(args[1:], " "))
			if len(scopes) == 0 {
				return fmt.Errorf("empty scope path")
			}

			provider := grammar.NewScopeMetadataProvider(languageID, embedded, th)
			stack, err := grammar.NewRootScopeStack(scopes[0], provider)
			if err != nil {
				return err
			}
			for _, scope := range scopes[1:] {
				if stack, err = stack.Push(scope, provider); err != nil {
					return err
				}
			}
			return printAttrs(cmd.OutOrStdout(), th, stack)
		},
	}
	cmd.Flags().IntVar(&languageID, "language", 1, "language id of the root scope")
	cmd.Flags().StringToIntVar(&embedded, "embedded", nil, "embedded language scope=id, repeatable")
	return cmd
}

func printAttrs(out io.Writer, th *theme.Theme, stack *grammar.AttributedScopeStack) error {
	var nodes []*grammar.AttributedScopeStack
	for n := stack; n != nil; n = n.Parent() {
		nodes = append(nodes, n)
	}
	slices.Reverse(nodes)

	styles := termstyle.NewResolver(th)
	tw := newTable(out)
	fmt.Fprintln(tw, "SCOPE\tLANG\tTYPE\tFONT\tFG\tBG\tTERM FG\tTERM BG\tBRACKETS")
	for _, n := range nodes {
		attrs := n.TokenAttributes()
		fg, bg, _ := styles.Style(attrs).Decompose()
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			n.ScopePath(), attrs.LanguageID(), attrs.TokenType(), attrs.FontStyle(),
			colorOf(th, attrs.Foreground()), colorOf(th, attrs.Background()),
			termHex(fg), termHex(bg), attrs.ContainsBalancedBrackets())
	}
	return tw.Flush()
}

func newColorsCmd(a *app) *cobra.Command {
	var showMap bool
	cmd := &cobra.Command{
		Use:   "colors [THEME]",
		Short: "Show a theme's editor colors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			th, err := a.loadTheme(name)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			if showMap {
				styles := termstyle.NewResolver(th)
				fmt.Fprintln(tw, "ID\tCOLOR\tTERM")
				for i, c := range th.ColorMap().Colors() {
					id := i + 1
					term, _ := styles.Color(id)
					fmt.Fprintf(tw, "%d\t%s\t%s\n", id, c, termHex(term))
				}
				return tw.Flush()
			}

			g := th.GuiColors()
			fmt.Fprintln(tw, "KEY\tCOLOR")
			for _, key := range g.Keys() {
				v, _ := g.Get(key)
				fmt.Fprintf(tw, "%s\t%s\n", key, v)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&showMap, "map", false, "show the interned token color map instead")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the theme directories and report changed theme files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			return a.registry.Watch(cmd.Context(), func(path string) {
				fmt.Fprintf(out, "changed %s (%d themes)\n", path, a.registry.Catalog().Len())
			})
		},
	}
}

func colorOf(th *theme.Theme, id int) string {
	if id == 0 {
		return "-"
	}
	return th.Color(id)
}

func termHex(c tcell.Color) string {
	if h := c.Hex(); h >= 0 {
		return fmt.Sprintf("#%06X", h)
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
