package syncer_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"npmyaml/internal/logging"
	"npmyaml/internal/manifest"
	"npmyaml/internal/syncer"
	"npmyaml/internal/testsupport"
)

var install = []string{"install"}

func newSyncer(t *testing.T, opts ...testsupport.ConfigOption) (*syncer.Syncer, *bytes.Buffer) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	var buf bytes.Buffer
	logger, closer, err := logging.NewFromConfig(cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	t.Cleanup(func() { _ = closer.Close() })
	return syncer.New(syncer.OptionsFromConfig(cfg), logger), &buf
}

func run(t *testing.T, s *syncer.Syncer, dir string, args ...string) syncer.Result {
	t.Helper()
	return s.Run(context.Background(), syncer.Invocation{Args: args, Dir: dir})
}

func parse(t *testing.T, format manifest.Format, content string) *manifest.Value {
	t.Helper()
	doc, err := manifest.Parse(format, []byte(content))
	if err != nil {
		t.Fatalf("parse %s: %v", format, err)
	}
	return doc.Root
}

func TestTriggered(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{args: nil, want: false},
		{args: []string{}, want: false},
		{args: []string{"install"}, want: true},
		{args: []string{"i"}, want: true},
		{args: []string{"i", "lodash"}, want: true},
		{args: []string{"run", "install"}, want: false},
		{args: []string{"Install"}, want: false},
		{args: []string{"ci"}, want: false},
		{args: []string{"--save", "install"}, want: false},
	}
	for _, tc := range tests {
		if got := syncer.Triggered(tc.args); got != tc.want {
			t.Errorf("Triggered(%q) = %v, want %v", tc.args, got, tc.want)
		}
	}
}

func TestRunNotTriggeredTouchesNothing(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()
	yml := testsupport.WriteManifest(t, dir, "package.yml", "name: foo\n")
	before := testsupport.TakeSnapshot(t, yml)

	for _, args := range [][]string{nil, {"run", "build"}, {"test"}} {
		result := run(t, s, dir, args...)
		if result.Action != syncer.ActionNotTriggered {
			t.Fatalf("args %q: unexpected action %q", args, result.Action)
		}
		if result.Written || result.Err != nil {
			t.Fatalf("args %q: unexpected result %+v", args, result)
		}
	}
	testsupport.AssertMissing(t, dir, "package.json")
	before.AssertUnchanged(t)
}

func TestRunNotTriggeredDoesNotReadUnreadableManifest(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	s, _ := newSyncer(t)
	dir := t.TempDir()
	yml := testsupport.WriteManifest(t, dir, "package.yml", "name: foo\n")
	if err := os.Chmod(yml, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(yml, 0o644) })

	result := run(t, s, dir, "run")
	if result.Err != nil {
		t.Fatalf("expected no error without trigger, got %v", result.Err)
	}
}

func TestRunConvertsYAMLToJSON(t *testing.T) {
	s, logs := newSyncer(t)
	dir := t.TempDir()
	testsupport.WriteManifest(t, dir, "package.yml", "name: foo\nversion: 1.0.0\n")

	result := run(t, s, dir, "install")
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Action != syncer.ActionYAMLToJSON || !result.Written {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Source != filepath.Join(dir, "package.yml") || result.Target != filepath.Join(dir, "package.json") {
		t.Fatalf("unexpected paths %+v", result)
	}
	if result.RunID == "" {
		t.Fatal("expected run id")
	}

	got := testsupport.ReadManifest(t, dir, "package.json")
	want := "{\n  \"name\": \"foo\",\n  \"version\": \"1.0.0\"\n}\n"
	if got != want {
		t.Fatalf("package.json mismatch:\n got %q\nwant %q", got, want)
	}
	if !strings.Contains(logs.String(), "syncer: converted manifest") {
		t.Fatalf("expected conversion log line, got %q", logs.String())
	}
}

func TestRunShortInstallAlias(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()
	testsupport.WriteManifest(t, dir, "package.yml", "name: foo\n")

	result := run(t, s, dir, "i", "left-pad")
	if !result.Written {
		t.Fatalf("expected write for alias, got %+v", result)
	}
}

func TestRunConvertsJSONToYAML(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()
	source := "{\"name\": \"foo\", \"dependencies\": {\"lodash\": \"^4.17.21\"}, \"private\": true}"
	testsupport.WriteManifest(t, dir, "package.json", source)

	result := run(t, s, dir, install...)
	if result.Err != nil || result.Action != syncer.ActionJSONToYAML || !result.Written {
		t.Fatalf("unexpected result %+v", result)
	}

	got := testsupport.ReadManifest(t, dir, "package.yml")
	want := "name: foo\ndependencies:\n  lodash: ^4.17.21\nprivate: true\n"
	if got != want {
		t.Fatalf("package.yml mismatch:\n got %q\nwant %q", got, want)
	}
	if !manifest.Equivalent(parse(t, manifest.FormatYAML, got), parse(t, manifest.FormatJSON, source)) {
		t.Fatal("converted yaml is not equivalent to the source json")
	}
}

func TestRunNoManifest(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()

	result := run(t, s, dir, install...)
	if result.Action != syncer.ActionNoManifest || result.Written || result.Err != nil {
		t.Fatalf("unexpected result %+v", result)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty directory, found %d entries", len(entries))
	}
}

func TestRunRoundTripAcrossRuns(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()
	original := `name: demo
version: 2.1.0
private: false
scripts:
  build: tsc -p .
  test: jest --ci
files:
  - dist
  - README.md
engines:
  node: ">=18"
config:
  port: 8080
  ratio: 0.5
  tag: "1.10"
  empty: null
`
	testsupport.WriteManifest(t, dir, "package.yml", original)

	if result := run(t, s, dir, install...); !result.Written {
		t.Fatalf("first run did not write: %+v", result)
	}
	if err := os.Remove(filepath.Join(dir, "package.yml")); err != nil {
		t.Fatal(err)
	}
	if result := run(t, s, dir, install...); !result.Written || result.Action != syncer.ActionJSONToYAML {
		t.Fatalf("second run did not regenerate yaml: %+v", result)
	}

	regenerated := testsupport.ReadManifest(t, dir, "package.yml")
	if !manifest.Equivalent(parse(t, manifest.FormatYAML, original), parse(t, manifest.FormatYAML, regenerated)) {
		t.Fatalf("round trip changed the manifest:\n%s", regenerated)
	}
}

func TestRunInvalidYAMLLeavesJSONUntouched(t *testing.T) {
	s, logs := newSyncer(t)
	dir := t.TempDir()
	testsupport.WriteManifest(t, dir, "package.yml", "name: [unterminated\n")
	jsonPath := testsupport.WriteManifest(t, dir, "package.json", "{\n  \"name\": \"keep\"\n}\n")
	before := testsupport.TakeSnapshot(t, jsonPath)

	result := run(t, s, dir, install...)
	if result.Written {
		t.Fatal("expected no write on parse failure")
	}
	if !errors.Is(result.Err, manifest.ErrParse) || result.ErrorKind() != manifest.ErrParse {
		t.Fatalf("expected ErrParse, got %v", result.Err)
	}
	before.AssertUnchanged(t)
	if !strings.Contains(logs.String(), "manifest conversion failed") {
		t.Fatalf("expected failure to be logged, got %q", logs.String())
	}
}

func TestRunInvalidJSONWritesNothing(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()
	testsupport.WriteManifest(t, dir, "package.json", "{\"name\": ")

	result := run(t, s, dir, install...)
	if !errors.Is(result.Err, manifest.ErrParse) || result.Written {
		t.Fatalf("expected parse failure without write, got %+v", result)
	}
	testsupport.AssertMissing(t, dir, "package.yml")
}

func TestRunYAMLWinsWhenBothExist(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()
	testsupport.WriteManifest(t, dir, "package.yml", "name: from-yaml\n")
	yml := filepath.Join(dir, "package.yml")
	before := testsupport.TakeSnapshot(t, yml)
	testsupport.WriteManifest(t, dir, "package.json", "{\"name\": \"from-json\"}\n")

	result := run(t, s, dir, install...)
	if result.Action != syncer.ActionYAMLToJSON || !result.Written {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := testsupport.ReadManifest(t, dir, "package.json"); got != "{\n  \"name\": \"from-yaml\"\n}\n" {
		t.Fatalf("expected json overwritten from yaml, got %q", got)
	}
	before.AssertUnchanged(t)
}

func TestRunEmptyYAMLSkipsWrite(t *testing.T) {
	s, logs := newSyncer(t)
	dir := t.TempDir()
	testsupport.WriteManifest(t, dir, "package.yml", "# nothing here yet\n")
	jsonPath := testsupport.WriteManifest(t, dir, "package.json", "{\"name\": \"keep\"}\n")
	before := testsupport.TakeSnapshot(t, jsonPath)

	result := run(t, s, dir, install...)
	if result.Err != nil || result.Written {
		t.Fatalf("expected silent skip, got %+v", result)
	}
	before.AssertUnchanged(t)
	if !strings.Contains(logs.String(), "skipping write") {
		t.Fatalf("expected skip to be logged, got %q", logs.String())
	}
}

func TestRunCustomNamesAndIndent(t *testing.T) {
	s, _ := newSyncer(t,
		testsupport.WithManifestNames("package.yaml", "package.json"),
		testsupport.WithIndent(4),
	)
	dir := t.TempDir()
	testsupport.WriteManifest(t, dir, "package.yaml", "name: foo\nscripts:\n  test: jest\n")

	result := run(t, s, dir, "i", "react")
	if !result.Written {
		t.Fatalf("expected write, got %+v", result)
	}
	want := "{\n    \"name\": \"foo\",\n    \"scripts\": {\n        \"test\": \"jest\"\n    }\n}\n"
	if got := testsupport.ReadManifest(t, dir, "package.json"); got != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", got, want)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	s, _ := newSyncer(t)
	dir := filepath.Join(t.TempDir(), "absent")

	result := run(t, s, dir, install...)
	if result.Action != syncer.ActionNoManifest || result.Err != nil {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunManifestPathIsDirectory(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "package.yml"), 0o755); err != nil {
		t.Fatal(err)
	}

	result := run(t, s, dir, install...)
	if !errors.Is(result.Err, manifest.ErrIO) {
		t.Fatalf("expected ErrIO, got %+v", result)
	}
}

func TestRunReadOnlyDirectoryReportsIOError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	s, _ := newSyncer(t)
	dir := t.TempDir()
	testsupport.WriteManifest(t, dir, "package.yml", "name: foo\n")
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	result := run(t, s, dir, install...)
	if !errors.Is(result.Err, manifest.ErrIO) || result.Written {
		t.Fatalf("expected ErrIO without write, got %+v", result)
	}
	testsupport.AssertMissing(t, dir, "package.json")
}

func TestRunWaitsForLockHolder(t *testing.T) {
	s, _ := newSyncer(t, testsupport.WithLockTimeout(1))
	dir := t.TempDir()
	yml := testsupport.WriteManifest(t, dir, "package.yml", "name: foo\n")

	holder := flock.New(yml)
	if err := holder.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}
	t.Cleanup(func() { _ = holder.Unlock() })

	start := time.Now()
	result := run(t, s, dir, install...)
	if !errors.Is(result.Err, manifest.ErrIO) {
		t.Fatalf("expected lock timeout to be an io error, got %+v", result)
	}
	if time.Since(start) < 900*time.Millisecond {
		t.Fatalf("expected run to wait for the lock, returned after %s", time.Since(start))
	}
	testsupport.AssertMissing(t, dir, "package.json")

	if err := holder.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if result := run(t, s, dir, install...); !result.Written {
		t.Fatalf("expected write once the lock is released, got %+v", result)
	}
}

func TestRunCancelledContext(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()
	yml := testsupport.WriteManifest(t, dir, "package.yml", "name: foo\n")

	holder := flock.New(yml)
	if err := holder.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}
	t.Cleanup(func() { _ = holder.Unlock() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := s.Run(ctx, syncer.Invocation{Args: install, Dir: dir})
	if !errors.Is(result.Err, manifest.ErrIO) || !errors.Is(result.Err, context.Canceled) {
		t.Fatalf("expected cancelled io error, got %+v", result)
	}
}

func TestRunIDsAreUnique(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()
	a := run(t, s, dir, "run")
	b := run(t, s, dir, "run")
	if a.RunID == "" || a.RunID == b.RunID {
		t.Fatalf("expected distinct run ids, got %q and %q", a.RunID, b.RunID)
	}
}

func TestPlanDoesNotReadContents(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()
	testsupport.WriteManifest(t, dir, "package.json", "not json at all")

	plan, err := s.Plan(dir)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Action != syncer.ActionJSONToYAML || plan.SourceFormat != manifest.FormatJSON {
		t.Fatalf("unexpected plan %+v", plan)
	}
}

func TestInSync(t *testing.T) {
	s, _ := newSyncer(t)
	dir := t.TempDir()

	ok, err := s.InSync(dir)
	if err != nil || ok {
		t.Fatalf("expected not in sync without manifests, got %v %v", ok, err)
	}

	testsupport.WriteManifest(t, dir, "package.yml", "version: 1.0.0\nname: foo\n")
	testsupport.WriteManifest(t, dir, "package.json", "{\"name\": \"foo\", \"version\": \"1.0.0\"}")
	ok, err = s.InSync(dir)
	if err != nil || !ok {
		t.Fatalf("expected manifests in sync, got %v %v", ok, err)
	}

	testsupport.WriteManifest(t, dir, "package.json", "{\"name\": \"bar\", \"version\": \"1.0.0\"}")
	ok, err = s.InSync(dir)
	if err != nil || ok {
		t.Fatalf("expected drift to be detected, got %v %v", ok, err)
	}

	testsupport.WriteManifest(t, dir, "package.json", "{")
	if _, err := s.InSync(dir); !errors.Is(err, manifest.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	s := syncer.New(syncer.Options{}, nil)
	opts := s.Options()
	if opts.YAMLName != "package.yml" || opts.JSONName != "package.json" || opts.Indent != 2 {
		t.Fatalf("unexpected defaults %+v", opts)
	}
	if opts.LockTimeout != 10*time.Second {
		t.Fatalf("unexpected defaults %+v", opts)
	}
}
