package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/tabprep-cli/internal/loader"
	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared rootCmd.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns its stdout.
func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	os.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func loadCSV(t *testing.T, path string) *table.Table {
	t.Helper()
	tb, err := loader.Load(path, loader.Options{})
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	return tb
}

const quarterlyCSV = `Region,Geolocation,2024 Quarter 1,2024 Quarter 2,2024 Quarter 3,2024 Quarter 4
North,"(1, 2)","$1,000",200,300,400
South,"(3, 4)","$2,000",,600,800
East,"(5, 6)",,300,900,1200
West,"(7, 8)","$4,000",500,1200,1600
`

func TestCLI_PrepareQuarterly(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "sales.csv")
	writeFile(t, in, quarterlyCSV)

	out := runCmd(t, "prepare", in, "--drop", "Geolocation", "--bin", "--one-hot", "Region", "--preview", "2")
	if !strings.Contains(out, "[1/1] Processing sales.csv...") {
		t.Fatalf("missing progress line: %s", out)
	}
	dest := filepath.Join(home, "sales.processed.csv")
	if !strings.Contains(out, "✓ Wrote "+dest+" (4 rows, 10 columns)") {
		t.Fatalf("missing result line: %s", out)
	}
	if !strings.Contains(out, "... 2 more rows") {
		t.Fatalf("missing preview: %s", out)
	}

	res := loadCSV(t, dest)
	want := []string{"Region_East", "Region_North", "Region_South", "Region_West",
		"2024 Quarter 1", "2024 Quarter 2", "2024 Quarter 3", "2024 Quarter 4", "Quarterly Average", "AvgBin"}
	if got := strings.Join(res.Names(), "|"); got != strings.Join(want, "|") {
		t.Fatalf("columns = %s", got)
	}
	for _, name := range want[4:9] {
		c, _ := res.Column(name)
		for i := 0; i < c.Len(); i++ {
			if v := c.Float(i); v < 0 || v > 1 {
				t.Fatalf("%s row %d = %v, want within [0,1]", name, i, v)
			}
		}
	}
	// North is lowest in every quarter, West highest
	bins, _ := res.Column("AvgBin")
	if bins.Text(0) != "Low" || bins.Text(3) != "High" {
		t.Fatalf("bins = %v", bins.Strings())
	}
	q1, _ := res.Column("2024 Quarter 1")
	if q1.Text(0) != "0" || q1.Text(3) != "1" {
		t.Fatalf("quarter 1 = %v", q1.Strings())
	}
}

func TestCLI_PrepareBatchGlob(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, filepath.Join(home, "d1", "q.csv"), quarterlyCSV)
	writeFile(t, filepath.Join(home, "d2", "q.csv"), quarterlyCSV)
	writeFile(t, filepath.Join(home, "d2", "notes.md"), "# not a dataset\n")

	out := runCmd(t, "prepare", filepath.Join(home, "d*", "*"), filepath.Join(home, "d1", "q.csv"), "--drop", "Geolocation")
	if !strings.Contains(out, "[1/2]") || !strings.Contains(out, "[2/2]") || strings.Contains(out, "[3/") {
		t.Fatalf("unexpected progress: %s", out)
	}
	for _, d := range []string{"d1", "d2"} {
		if _, err := os.Stat(filepath.Join(home, d, "q.processed.csv")); err != nil {
			t.Fatalf("missing output in %s: %v", d, err)
		}
	}

	if _, err := execCmd("prepare", filepath.Join(home, "d*", "q.csv"), "-o", filepath.Join(home, "x.csv")); err == nil {
		t.Fatalf("expected error for --output with several inputs")
	}
}

func TestCLI_PrepareFailures(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "sales.csv")
	writeFile(t, in, quarterlyCSV)

	_, err := execCmd("prepare", in, "--drop", "Nope", "--quiet")
	if err == nil || !strings.Contains(err.Error(), "unknown column") || !strings.Contains(err.Error(), "Nope") {
		t.Fatalf("expected unknown column error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "sales.processed.csv")); !os.IsNotExist(err) {
		t.Fatalf("no output expected after a failed run")
	}

	_, err = execCmd("prepare", filepath.Join(home, "data.json"))
	if err == nil || !strings.Contains(err.Error(), "unsupported file format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestCLI_EncodeBucket(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "prod.csv")
	writeFile(t, in, "Plant,Production\nA,4999\nB,5000\nC,15000\nD,\n")

	out := filepath.Join(home, "labels.csv")
	runCmd(t, "encode", in, "--for", "bucket", "--column", "Production",
		"--thresholds", "5000,15000", "--labels", "Low,Medium,High", "-o", out, "--quiet")
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "Plant,Production\nA,Low\nB,Medium\nC,High\nD,\n"
	if string(b) != want {
		t.Fatalf("output = %q, want %q", b, want)
	}

	if _, err := execCmd("encode", in, "--for", "bucket", "--column", "Production",
		"--thresholds", "15000,5000", "--labels", "Low,Medium,High"); err == nil {
		t.Fatalf("expected error for descending thresholds")
	}
}

func TestCLI_EncodeAssociationAndClustering(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "basket.csv")
	writeFile(t, in, "Region,Sales,Units\nA,0,3\nB,2.5,\nA,1,5\n")

	runCmd(t, "encode", in, "--for", "association")
	res := loadCSV(t, filepath.Join(home, "basket.association.csv"))
	if got := strings.Join(res.Names(), ","); got != "Region_A,Region_B,Sales,Units" {
		t.Fatalf("association columns = %s", got)
	}
	b, _ := os.ReadFile(filepath.Join(home, "basket.association.csv"))
	if !strings.Contains(string(b), "true,false,false,true\n") {
		t.Fatalf("association output:\n%s", b)
	}

	runCmd(t, "encode", in, "--for", "clustering")
	res = loadCSV(t, filepath.Join(home, "basket.clustering.csv"))
	if got := strings.Join(res.Names(), ","); got != "Sales,Units" {
		t.Fatalf("clustering columns = %s", got)
	}
	units, _ := res.Column("Units")
	if units.Float(1) != 4 {
		t.Fatalf("imputed units = %v, want 4", units.Float(1))
	}

	one := filepath.Join(home, "one.csv")
	writeFile(t, one, "Region,Sales\nA,1\nB,2\n")
	_, err := execCmd("encode", one, "--for", "clustering")
	if err == nil || !strings.Contains(err.Error(), "type mismatch") {
		t.Fatalf("expected type mismatch, got %v", err)
	}

	if _, err := execCmd("encode", in, "--for", "apriori"); err == nil {
		t.Fatalf("expected error for unknown target")
	}

	three := filepath.Join(home, "three.csv")
	writeFile(t, three, "a,b,c\n1,2,3\n4,5,6\n")
	runCmd(t, "encode", three, "--for", "clustering", "--quiet")
	res = loadCSV(t, filepath.Join(home, "three.clustering.csv"))
	if got := strings.Join(res.Names(), ","); got != "a,b" {
		t.Fatalf("default clustering columns = %s, want a,b", got)
	}
}

func TestCLI_EncodeClassification(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "crops.csv")
	writeFile(t, in, "Region,Rainfall,Production\nSouth,80,4000\nNorth,120,5000\nSouth,95,20000\n")

	runCmd(t, "encode", in, "--for", "classification", "--target", "Production", "--quiet")
	b, err := os.ReadFile(filepath.Join(home, "crops.classification.csv"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "Region,Rainfall,Production\n1,80,Low\n0,120,Medium\n1,95,High\n"
	if string(b) != want {
		t.Fatalf("output = %q, want %q", b, want)
	}

	if _, err := execCmd("encode", in, "--for", "classification"); err == nil {
		t.Fatalf("expected error without --target")
	}
	if _, err := execCmd("encode", in, "--for", "classification", "--target", "Region"); err == nil {
		t.Fatalf("expected error for a text target")
	}
}

func TestCLI_InspectAndConfig(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "sales.csv")
	writeFile(t, in, quarterlyCSV)

	out := runCmd(t, "inspect", in, "--correlations", "--sample-rows", "1")
	for _, want := range []string{"[DATASET SUMMARY]", "File: sales.csv", "- 2024 Quarter 1: text", "[CORRELATIONS]", "| North |"} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, out)
		}
	}
	md := filepath.Join(home, "out", "sales.md")
	runCmd(t, "inspect", in, "-o", md)
	if _, err := os.Stat(md); err != nil {
		t.Fatalf("missing summary file: %v", err)
	}

	runCmd(t, "config", "set", "drop_columns", "Geolocation")
	runCmd(t, "config", "set", "bin_labels", "Bottom, Middle, Top")
	show := runCmd(t, "config", "show")
	if !strings.Contains(show, "drop_columns: Geolocation") || !strings.Contains(show, "bin_labels: Bottom, Middle, Top") {
		t.Fatalf("config show:\n%s", show)
	}
	if _, err := os.Stat(filepath.Join(home, ".tabprep", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}

	// saved defaults now drive prepare
	runCmd(t, "prepare", in, "--bin", "--quiet")
	res := loadCSV(t, filepath.Join(home, "sales.processed.csv"))
	if res.Has("Geolocation") {
		t.Fatalf("Geolocation should be dropped by config")
	}
	bins, _ := res.Column("AvgBin")
	if bins.Text(0) != "Bottom" {
		t.Fatalf("bins = %v", bins.Strings())
	}

	if _, err := execCmd("config", "set", "precision", "-5"); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := execCmd("config", "set", "nope", "x"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestCLI_ConfigSetDoesNotPersistEnv(t *testing.T) {
	home := isolateHome(t)
	t.Setenv("TABPREP_BIN_COLUMN", "Band")

	runCmd(t, "config", "set", "drop_columns", "Geolocation")
	b, err := os.ReadFile(filepath.Join(home, ".tabprep", "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if strings.Contains(string(b), "Band") || !strings.Contains(string(b), "bin_column: AvgBin") {
		t.Fatalf("env override leaked into config:\n%s", b)
	}
}
