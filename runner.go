package advisor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/advisor/internal/presentation/tui"
	"github.com/aretw0/advisor/internal/sanitize"
	"github.com/aretw0/advisor/pkg/domain"
)

// Runner plays the quiz over line-based IO.
// This allows for easy testing and integration with different frontends (CLI, pipes).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
	// Brand skips the brand selector when set.
	Brand     domain.Brand
	SessionID string
}

// ContentRenderer transforms markdown before it is written, e.g. to ANSI.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner over the given IO.
func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{
		Input:     in,
		Output:    out,
		SessionID: "local",
	}
}

const helpLine = "_[number] answer · b back · r restart · reset brands · q quit_"

// Run executes the quiz loop until the user quits or input ends.
func (r *Runner) Run(ctx context.Context, engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lines := bufio.NewReader(r.Input)

	state := engine.NewSession(r.SessionID)
	if r.Brand != "" {
		started, err := engine.Start(ctx, r.SessionID, r.Brand)
		if err != nil {
			return err
		}
		state = started
	}

	dirty := true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if dirty {
			md, err := r.screen(ctx, engine, state)
			if err != nil {
				return err
			}
			r.print(md)
			dirty = false
		}

		input, err := r.prompt(lines)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch strings.ToLower(input) {
		case "":
			continue
		case "q", "quit", "exit":
			if !r.Headless {
				fmt.Fprintln(r.Output, "Bye!")
			}
			return nil
		}

		next, err := r.apply(ctx, engine, state, input)
		if err != nil {
			if errors.Is(err, errBadInput) {
				fmt.Fprintln(r.Output, err.Error())
				continue
			}
			return err
		}
		dirty = true
		state = next
	}
}

var errBadInput = errors.New("unrecognized input, type a number or q")

func (r *Runner) apply(ctx context.Context, engine *Engine, state *domain.State, input string) (*domain.State, error) {
	if !state.HasBrand() {
		brand, ok := pickBrand(engine.Brands(), input)
		if !ok {
			return nil, errBadInput
		}
		return engine.SelectBrand(ctx, state, brand)
	}

	switch strings.ToLower(input) {
	case "b", "back":
		return engine.Back(ctx, state)
	case "r", "restart":
		return engine.Restart(ctx, state)
	case "reset":
		return engine.Reset(ctx, state)
	}

	n, err := strconv.Atoi(input)
	if err != nil || n < 1 {
		return nil, errBadInput
	}
	next, err := engine.Choose(ctx, state, n-1)
	if errors.Is(err, ErrButtonOutOfRange) {
		return nil, errBadInput
	}
	return next, err
}

func (r *Runner) screen(ctx context.Context, engine *Engine, state *domain.State) (string, error) {
	if !state.HasBrand() {
		return tui.BrandsMarkdown(engine.Brands()), nil
	}
	view, err := engine.Render(ctx, state)
	if err != nil {
		return "", fmt.Errorf("render error: %w", err)
	}
	md := tui.ViewMarkdown(view, engine.Translator())
	if !r.Headless {
		md += "\n" + helpLine + "\n"
	}
	return md, nil
}

func (r *Runner) print(md string) {
	out := md
	if r.Renderer != nil {
		if rendered, err := r.Renderer(md); err == nil {
			out = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(out))
}

func (r *Runner) prompt(lines *bufio.Reader) (string, error) {
	if !r.Headless {
		fmt.Fprint(r.Output, "> ")
	}
	text, err := lines.ReadString('\n')
	if err != nil && (text == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	clean, err := sanitize.Input(text)
	if err != nil {
		// Oversized or binary lines are ignored like blank ones.
		return "", nil
	}
	return clean, nil
}

// pickBrand accepts a 1-based position in the selector or a brand id.
func pickBrand(brands []domain.BrandInfo, input string) (domain.Brand, bool) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(brands) || !brands[n-1].Available {
			return "", false
		}
		return brands[n-1].ID, true
	}
	b, err := domain.ParseBrand(input)
	if err != nil {
		return "", false
	}
	return b, true
}
