// Command aspfol translates ASP/Horn-style logic-program rules into closed
// first-order formulas, in either a human-readable or TPTP rendering, per
// spec.md §6. It is a single flag-based binary, in the shape of the
// teacher's cmd/orizon-compiler: subcommands are flags, not a framework.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aspfol/aspfol/internal/cli"
	"github.com/aspfol/aspfol/internal/decl"
	"github.com/aspfol/aspfol/internal/ferr"
	"github.com/aspfol/aspfol/internal/format"
	"github.com/aspfol/aspfol/internal/pipeline"
	"github.com/aspfol/aspfol/internal/textsyntax"
	"github.com/aspfol/aspfol/internal/versioncheck"
	"github.com/aspfol/aspfol/internal/watch"
)

type signatureFlags []decl.SignatureEntry

func (s *signatureFlags) String() string {
	parts := make([]string, len(*s))
	for i, e := range *s {
		parts[i] = fmt.Sprintf("%s/%d", e.Name, e.Arity)
	}

	return strings.Join(parts, ",")
}

func (s *signatureFlags) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		sig, err := parseSignature(part)
		if err != nil {
			return err
		}

		*s = append(*s, sig)
	}

	return nil
}

func parseSignature(s string) (decl.SignatureEntry, error) {
	name, arityText, ok := strings.Cut(s, "/")
	if !ok {
		return decl.SignatureEntry{}, fmt.Errorf("expected name/arity, got %q", s)
	}

	arity, err := strconv.Atoi(arityText)
	if err != nil {
		return decl.SignatureEntry{}, fmt.Errorf("invalid arity in %q: %w", s, err)
	}

	return decl.SignatureEntry{Name: name, Arity: arity}, nil
}

func main() {
	var (
		showFlags     signatureFlags
		externalFlags signatureFlags

		formatFlag  = flag.String("format", "human", "output dialect: human or tptp")
		noComplete  = flag.Bool("no-complete", false, "skip predicate completion, emit scoped formulas only")
		noSimplify  = flag.Bool("no-simplify", false, "skip simplification")
		noDomains   = flag.Bool("no-domains", false, "skip integer-domain inference")
		watchFlag   = flag.Bool("watch", false, "re-run on every change to the input file")
		langVersion = flag.String("language-version", cli.Version, "translator version checked against a #language pragma")
		verboseFlag = flag.Bool("verbose", false, "enable info-level logging")
		debugFlag   = flag.Bool("debug", false, "enable debug-level logging")
		versionFlag = flag.Bool("version", false, "print version information and exit")
	)

	flag.Var(&showFlags, "show", "visible predicate signature name/arity, repeatable")
	flag.Var(&externalFlags, "external", "external predicate signature name/arity, repeatable")
	flag.Parse()

	if *versionFlag {
		cli.PrintVersion("aspfol")
		return
	}

	if flag.NArg() > 1 {
		cli.ExitWithError("%s", ferr.New(ferr.MultipleInputs, "at most one input is accepted, got %d", flag.NArg()))
	}

	logger := cli.NewLogger(*verboseFlag, *debugFlag)

	outFormat := pipeline.HumanReadable
	if strings.EqualFold(*formatFlag, "tptp") {
		outFormat = pipeline.TPTP
	}

	ctx := pipeline.Context{
		PerformCompletion:           !*noComplete,
		PerformSimplification:       !*noSimplify,
		DetectIntegerVariables:      !*noDomains,
		OutputFormat:                outFormat,
		VisiblePredicateSignatures:  showFlags,
		ExternalPredicateSignatures: externalFlags,
	}

	inputPath := ""
	if flag.NArg() == 1 {
		inputPath = flag.Arg(0)
	}

	if *watchFlag {
		if inputPath == "" {
			cli.ExitWithError("%s", ferr.New(ferr.IOError, "-watch requires a single input file, not stdin"))
		}

		runWatch(inputPath, ctx, *langVersion, logger)
		return
	}

	if err := runOnce(inputPath, ctx, *langVersion, logger, os.Stdout); err != nil {
		cli.ExitWithError("%s", err)
	}
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			return "", ferr.Wrap(err, "reading stdin")
		}

		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", ferr.Wrap(err, "reading %s", path)
	}

	return string(data), nil
}

func runOnce(path string, ctx pipeline.Context, langVersion string, logger *cli.Logger, out io.Writer) error {
	src, err := readInput(path)
	if err != nil {
		return err
	}

	constraint, src := textsyntax.ExtractLanguagePragma(src)
	if err := versioncheck.Check(versioncheck.Pragma{Constraint: constraint}, langVersion); err != nil {
		return ferr.Wrap(err, "language version check failed")
	}

	logger.Debug("parsing %d bytes of source", len(src))

	statements, err := textsyntax.Parse(src)
	if err != nil {
		return ferr.Wrap(err, "parsing source")
	}

	logger.Info("parsed %d statements", len(statements))

	result, err := pipeline.Run(ctx, statements)
	if err != nil {
		return err
	}

	for _, d := range result.Warnings.All() {
		logger.Warn("%s", d)
	}

	for name, count := range result.Stats.DefinitionCounts {
		logger.Debug("completion folded %d definition(s) into %s", count, name)
	}

	switch ctx.OutputFormat {
	case pipeline.TPTP:
		fmt.Fprint(out, format.TPTP(result.Formulas, result.Predicates, result.Functions))
	default:
		fmt.Fprint(out, format.TypeTable(result.Predicates, result.Functions))
		fmt.Fprint(out, format.HumanReadable(result.Formulas))
	}

	return nil
}

func runWatch(path string, ctx pipeline.Context, langVersion string, logger *cli.Logger) {
	w, err := watch.New(path)
	if err != nil {
		cli.ExitWithError("%s", ferr.Wrap(err, "watching %s", path))
	}
	defer w.Close()

	logger.Info("watching %s, ctrl-c to stop", path)

	if err := runOnce(path, ctx, langVersion, logger, os.Stdout); err != nil {
		logger.Error("%s", err)
	}

	for {
		select {
		case ev := <-w.Events:
			if !watch.ShouldRerun(ev) {
				continue
			}

			logger.Info("change detected, re-running")

			if err := runOnce(path, ctx, langVersion, logger, os.Stdout); err != nil {
				logger.Error("%s", err)
			}
		case err := <-w.Errors:
			logger.Error("watch error: %s", err)
		}
	}
}
