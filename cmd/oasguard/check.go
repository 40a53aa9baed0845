package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/oasguard/oasguard/conformance"
	"github.com/oasguard/oasguard/contract"
)

// exchange is one captured request/response pair in a check input file.
// The file holds either a single exchange object or an array of them.
type exchange struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Query    string `json:"query,omitempty"`
	Request  *part  `json:"request,omitempty"`
	Response *part  `json:"response,omitempty"`
}

type part struct {
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        string `json:"body,omitempty"`
}

func setupCheckFlags() (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	spec := fs.String("spec", "", "path or URL of the OpenAPI contract")
	prefix := fs.String("prefix", "", "path prefix stripped before contract lookup")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oasguard check -spec <contract> [flags] <exchanges.json|->\n\n")
		_, _ = fmt.Fprintf(output, "Judge captured HTTP exchanges against an OpenAPI contract.\n")
		_, _ = fmt.Fprintf(output, "Reads a JSON exchange (or array of exchanges) from a file or stdin.\n")
		_, _ = fmt.Fprintf(output, "Exits non-zero when any violation is found.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExchange format:\n")
		_, _ = fmt.Fprintf(output, `  {"method":"POST","path":"/articles","query":"tag=go",`+"\n")
		_, _ = fmt.Fprintf(output, `   "request":{"contentType":"application/json","body":"{\"title\":\"go\"}"},`+"\n")
		_, _ = fmt.Fprintf(output, `   "response":{"status":201,"contentType":"application/json","body":"{}"}}`+"\n")
	}

	return fs, spec, prefix
}

func handleCheck(args []string) (bool, error) {
	fs, spec, prefix := setupCheckFlags()
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return true, nil
		}
		return false, err
	}
	if *spec == "" {
		fs.Usage()
		return false, fmt.Errorf("check command requires -spec")
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return false, fmt.Errorf("check command requires exactly one exchange file (or - for stdin)")
	}

	exchanges, err := readExchanges(fs.Arg(0))
	if err != nil {
		return false, err
	}

	ctx := context.Background()
	doc, err := loadContract(ctx, *spec)
	if err != nil {
		return false, err
	}
	registry, err := conformance.NewRegistry(doc)
	if err != nil {
		return false, err
	}
	opts := []conformance.Option{
		conformance.WithReporter(func(conformance.ReportContext) {}),
	}
	if *prefix != "" {
		opts = append(opts, conformance.WithPathPrefix(*prefix))
	}
	validator, err := conformance.NewValidator(registry, contract.NewCompiledChecker(), opts...)
	if err != nil {
		return false, err
	}

	violations := 0
	for i, ex := range exchanges {
		for _, v := range checkExchange(validator, ex) {
			violations++
			fmt.Printf("exchange %d: %s %s\n  %s\n", i, ex.Method, ex.Path, v.String())
		}
	}

	if violations > 0 {
		fmt.Printf("\n%d violation(s) in %d exchange(s)\n", violations, len(exchanges))
		return false, nil
	}
	fmt.Printf("%d exchange(s) conform\n", len(exchanges))
	return true, nil
}

// checkExchange runs both pipelines over one captured exchange and collects
// the violations. Unlike the live middleware there is no suppression: the
// operator asked about this specific exchange, so every mismatch is shown.
func checkExchange(v *conformance.Validator, ex exchange) []conformance.Violation {
	var out []conformance.Violation

	req := &http.Request{
		Method: ex.Method,
		URL:    &url.URL{Path: ex.Path, RawQuery: ex.Query},
		Header: http.Header{},
	}
	if ex.Request != nil {
		if ex.Request.ContentType != "" {
			req.Header.Set("Content-Type", ex.Request.ContentType)
		}
		if ex.Request.Body != "" {
			req.Body = io.NopCloser(strings.NewReader(ex.Request.Body))
		}
	}

	reqResult, err := v.ValidateRequest(req)
	if err != nil {
		out = append(out, conformance.Violation{
			Provenance: conformance.ProvenanceRequest,
			Path:       "request",
			Message:    err.Error(),
		})
		return out
	}
	if reqResult.Violation != nil {
		out = append(out, *reqResult.Violation)
	}

	if ex.Response == nil {
		return out
	}
	header := http.Header{}
	if ex.Response.ContentType != "" {
		header.Set("Content-Type", ex.Response.ContentType)
	}
	respResult, err := v.ValidateResponse(req, ex.Response.Status, header, []byte(ex.Response.Body))
	if err != nil {
		out = append(out, conformance.Violation{
			Provenance: conformance.ProvenanceResponse,
			Path:       "response",
			Message:    err.Error(),
		})
		return out
	}
	if respResult.Violation != nil {
		out = append(out, *respResult.Violation)
	}
	return out
}

// readExchanges reads one exchange or an array of exchanges from a file or
// stdin ("-").
func readExchanges(path string) ([]exchange, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading exchanges: %w", err)
	}

	var list []exchange
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var single exchange
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parsing exchanges: %w", err)
	}
	return []exchange{single}, nil
}
