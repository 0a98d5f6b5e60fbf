package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"

	"refnorm/internal/config"
	"refnorm/internal/errors"
	"refnorm/internal/formatter"
	"refnorm/internal/models"
	"refnorm/internal/normalizer"
	"refnorm/internal/parser"
	"refnorm/internal/resolver"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	URL         string `help:"HTTP(S) URL to fetch the JSON payload from." short:"u"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Entity      string `help:"Entity kind to normalize: order, invoice, customer, product." short:"e" enum:"order,invoice,customer,product" default:"order"`
	Config      string `help:"Path to a YAML config file." short:"c" type:"path"`
	Pretty      bool   `help:"Pretty-print the output JSON." default:"true" negatable:""`
	Dedupe      bool   `help:"Drop records repeating an earlier record's id." default:"true" negatable:""`
	Debug       bool   `help:"Dump the resolved tree to stderr before normalizing." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	cliParser := kong.Must(&CLI,
		kong.Name("refnorm"),
		kong.Description("Resolves $id/$ref JSON reference graphs and normalizes commerce records"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := cliParser.Parse(os.Args[1:]); err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("refnorm version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err == nil {
		err = run(&Context{Debug: CLI.Debug, Config: cfg})
	}
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: refnorm --help\n")

		os.Exit(1)
	}
}

// loadConfig builds the effective configuration from defaults, an optional
// config file, and the CLI flags (flags win).
func loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if CLI.Config != "" {
		loaded, err := config.LoadConfig(CLI.Config)
		if err != nil {
			return nil, errors.NewConfigError("failed to load config", err)
		}
		cfg = loaded
	}
	cfg.Output.Pretty = CLI.Pretty
	cfg.Output.Dedupe = CLI.Dedupe
	return cfg, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	// 1. Parse JSON input
	doc, err := parseInput()
	if err != nil {
		// Error is already wrapped by parseInput
		return err
	}

	// 2. Resolve the $id/$ref reference graph
	resolved := resolver.Resolve(doc.Root)
	if ctx.Debug {
		spew.Fdump(os.Stderr, resolved)
	}

	// 3. Normalize into records
	records, err := normalizeRecords(ctx, resolved)
	if err != nil {
		return err
	}

	// 4. Render the records as JSON
	f := formatter.Formatter{Pretty: ctx.Config.Output.Pretty}
	out, err := f.Format(records)
	if err != nil {
		return errors.NewOutputError("failed to encode normalized records", err)
	}

	// 5. Output the result
	return writeOutput(out)
}

// normalizeRecords dispatches on the selected entity kind.
func normalizeRecords(ctx *Context, resolved models.JSONValue) (interface{}, error) {
	n := normalizer.NewWithConfig(ctx.Config)
	switch models.EntityKind(CLI.Entity) {
	case models.EntityOrder:
		orders := n.NormalizeOrderList(resolved)
		if ctx.Config.Output.Dedupe {
			orders = n.Dedupe(orders)
		}
		return orders, nil
	case models.EntityInvoice:
		invoices := n.NormalizeInvoiceList(resolved)
		if ctx.Config.Output.Dedupe {
			invoices = n.Dedupe(invoices)
		}
		return invoices, nil
	case models.EntityCustomer:
		return n.NormalizeCustomerList(resolved), nil
	case models.EntityProduct:
		return n.NormalizeProductList(resolved), nil
	default:
		return nil, errors.NewInputError(fmt.Sprintf("unknown entity kind '%s'", CLI.Entity), errors.ErrUnknownEntity)
	}
}

// parseInput reads JSON from file, URL or stdin
func parseInput() (models.Document, error) {
	if CLI.Input != "" && CLI.URL != "" {
		return models.Document{}, errors.NewInputError("cannot specify both --input and --url", nil)
	}

	if CLI.Input != "" {
		// Parse from file
		return parser.ParseFile(CLI.Input)
	}

	if CLI.URL != "" {
		return fetchURL(CLI.URL)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			// Interactive mode
			return readInteractiveInput()
		}
		// No data provided on stdin and not in interactive mode
		return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// fetchURL performs a GET against an order/customer/product/invoice endpoint
// and parses the response body.
func fetchURL(rawURL string) (models.Document, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (!strings.EqualFold(parsed.Scheme, "http") && !strings.EqualFold(parsed.Scheme, "https")) {
		return models.Document{}, errors.NewInputError(fmt.Sprintf("invalid URL scheme in '%s', only http and https are supported", rawURL), err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(rawURL)
	if err != nil {
		return models.Document{}, errors.NewInputError(fmt.Sprintf("request to '%s' failed", rawURL), err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing response body: %v\n", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return models.Document{}, errors.NewInputError(fmt.Sprintf("request to '%s' returned status %d", rawURL, resp.StatusCode), nil)
	}

	return parser.Parse(resp.Body)
}

// writeOutput writes the rendered records to file or stdout
func writeOutput(out string) error {
	if CLI.Output != "" {
		// Write to file
		err := os.WriteFile(CLI.Output, []byte(out+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Normalized records written to %s\n", CLI.Output)
		return nil
	}

	// Write to stdout
	_, err := fmt.Println(strings.TrimSpace(out))
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.Document, error) {
	fmt.Fprintln(os.Stderr, "refnorm Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			// End of input
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
		jsonBuilder.WriteString(line)
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
