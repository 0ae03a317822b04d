package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Qautry/booster/verify"
)

// runVerification validates every output written during this invocation, in
// stable order (artifact base name, extension-insensitive). Results are
// reported per artifact and never fail the invocation; verifier scratch
// output is removed regardless of the result.
func (inv *Invocation) runVerification(ctx context.Context) []verify.Result {
	records := inv.records.Sorted()
	results := make([]verify.Result, 0, len(records))

	for _, rec := range records {
		scratch, err := inv.FS().TempDir(inv.TempDir(), "verify-")
		if err != nil {
			results = append(results, verify.Result{Name: rec.Name, Path: rec.Path, ExitCode: -1, Err: err})
			inv.Logger().Warn("verification skipped", "artifact", rec.Name, "error", err)
			continue
		}
		code, err := inv.options.Verifier.Verify(ctx, scratch, rec.Path, inv.options.VerifyTarget)
		if rmErr := inv.FS().RemoveAll(scratch); rmErr != nil {
			inv.Logger().Warn("scratch cleanup failed", "dir", scratch, "error", rmErr)
		}

		res := verify.Result{Name: rec.Name, Path: rec.Path, ExitCode: code, Err: err}
		results = append(results, res)
		if res.Passed() {
			inv.Logger().Info("verify PASS", "artifact", rec.Name)
		} else {
			inv.Logger().Warn("verify FAIL", "artifact", rec.Name, "exit", code, "error", err)
		}
	}

	if inv.ReportDir() != "" {
		if err := inv.writeVerifyReport(results); err != nil {
			inv.Logger().Warn("verification report not written", "error", err)
		}
	}
	return results
}

func (inv *Invocation) writeVerifyReport(results []verify.Result) error {
	var b strings.Builder
	for _, res := range results {
		if res.Passed() {
			fmt.Fprintf(&b, "PASS %s\n", res.Name)
		} else {
			fmt.Fprintf(&b, "FAIL %s (exit %d)\n", res.Name, res.ExitCode)
		}
	}
	if err := inv.FS().MkdirAll(inv.ReportDir(), 0o755); err != nil {
		return err
	}
	return inv.FS().WriteFile(filepath.Join(inv.ReportDir(), "verify.txt"), []byte(b.String()), 0o644)
}
