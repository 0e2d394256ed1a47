package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ratemymovie/internal/kv"
)

// Export writes every document of the namespace to a JSON file, one
// property per key.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("export <file>")
	}

	docs, err := a.store.List(ctx)
	if err != nil {
		return err
	}

	out := make(map[string]json.RawMessage, len(docs))
	for k, v := range docs {
		if !json.Valid(v) {
			return fmt.Errorf("failed to export %q: value is not JSON", k)
		}
		out[k] = v
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0o600); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported %d keys to %s\n", len(out), args[0])
	return nil
}

// Import writes the documents of an exported file back in one batch and
// reloads the session from the restored data.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("import <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var in map[string]json.RawMessage
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	values := make(map[string][]byte, len(in))
	for k, v := range in {
		values[k] = v
	}
	if err := kv.SetMany(ctx, a.store, values); err != nil {
		return err
	}

	a.session.Init(ctx)
	fmt.Fprintf(a.out, "Imported %d keys from %s\n", len(values), args[0])
	return nil
}
