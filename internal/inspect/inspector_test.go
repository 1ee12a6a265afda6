package inspect

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/reachinspect/internal/excerpt"
	"github.com/josephgoksu/reachinspect/internal/source"
	"github.com/josephgoksu/reachinspect/internal/ui"
)

const indexRsh = `'reach 0.1';
export const main = Reach.App(() => {
  const A = Participant('Alice', { getAmount: UInt });
  init();
  A.only(() => {
    const amount = declassify(interact.getAmount());
  });
  A.publish(amount);
  transfer(amount).to(A);
  commit();
});
`

func newTestInspector(t *testing.T, pal ui.Palette, files map[string]string) (*Inspector, *bytes.Buffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	src := source.NewReader(fs, "/install")
	buf := &bytes.Buffer{}
	in := New(Config{
		Out:      buf,
		Palette:  pal,
		Excerpts: excerpt.NewFormatter(src, pal, excerpt.DefaultThreshold),
		Names:    src,
	})
	return in, buf
}

func feedAll(t *testing.T, in *Inspector, lines ...string) {
	t.Helper()
	for _, l := range lines {
		require.NoError(t, in.Feed(l))
	}
}

func TestInspector_NoiseIsSilent(t *testing.T) {
	in, buf := newTestInspector(t, ui.PlainPalette(), nil)

	feedAll(t, in, "Compiling index.rsh", "  msg: ignored", "")
	assert.Empty(t, buf.String())
	assert.Equal(t, PhaseNone, in.Phase())

	feedAll(t, in, "Verifying knowledge assertions")
	before := buf.String()
	feedAll(t, in, "Checking application", "  when ALL participants are honest", "  at ./index.rsh:1:1")
	assert.Equal(t, before, buf.String())
	assert.Equal(t, PhaseVerifying, in.Phase())
}

func TestInspector_ConsecutiveVerifying(t *testing.T) {
	in, buf := newTestInspector(t, ui.PlainPalette(), nil)

	require.NoError(t, in.InspectString(context.Background(), "Verifying ...\nVerifying ...\n"))

	assert.Equal(t, "Verification started\n- Verifying ......OK\n- Verifying ......OK\n", buf.String())
	assert.Equal(t, 2, strings.Count(buf.String(), "...OK"))
}

func TestInspector_EndsAfterFailure(t *testing.T) {
	in, buf := newTestInspector(t, ui.PlainPalette(), nil)

	require.NoError(t, in.InspectString(context.Background(), "Verifying x\nVerification failed: X"))

	want := "Verification started\n" +
		"- Verifying x...FAILED\n" +
		"\nVerification failed: X\n" +
		"Reach found a scenario where one of our security assumptions is violated\n" +
		strings.Repeat("-", 80) + "\n\n"
	assert.Equal(t, want, buf.String())
	assert.NotContains(t, buf.String(), "VIOLATION WITNESS")
}

func TestInspector_FailureDetails(t *testing.T) {
	in, buf := newTestInspector(t, ui.PlainPalette(), map[string]string{"/install/index.rsh": indexRsh})

	feedAll(t, in,
		"Verifying for generic connector",
		"Verification failed:",
		"  when ALL participants are honest",
		`  msg: "balance sufficient for transfer"`,
		"  at ./index.rsh:8:5:application",
	)
	out := buf.String()

	assert.Contains(t, out, "* All participants were honest")
	assert.Contains(t, out, `* Failed assumption is "balance sufficient for transfer"`)
	assert.Contains(t, out, "  [./index.rsh:8:5]\n")
	assert.Contains(t, out, "  8    A.publish(amount);\n")
	assert.Contains(t, out, "  5    A.only(() => {\n")
	assert.Contains(t, out, " 11  });\n")
	assert.NotContains(t, out, "  4    init();")
}

func TestInspector_CatalogFallbacks(t *testing.T) {
	in, buf := newTestInspector(t, ui.PlainPalette(), nil)

	feedAll(t, in,
		"Verification failed:",
		"  when Alice is honest",
		`  msg: "price is positive"`,
	)

	assert.Contains(t, buf.String(), "* Only Alice was honest, meaning only Alice followed")
	assert.Contains(t, buf.String(), "* Failed assumption is \"price is positive\"\n")
}

func TestInspector_WitnessRoundTrip(t *testing.T) {
	lines := make([]string, 12)
	lines[9] = "const y = bar();"
	in, buf := newTestInspector(t, ui.PlainPalette(), map[string]string{
		"/work/foo.rsh": strings.Join(lines, "\n"),
	})

	feedAll(t, in,
		"  // Violation Witness",
		`  const x = protect<Bool>("f()")`,
		"  //    ^ could = true",
		"  //      from: /work/foo.rsh:10",
	)

	out := buf.String()
	assert.Contains(t, out, "VIOLATION WITNESS")
	assert.Contains(t, out, "  f() is called with true\n> const y: Bool = true\n")
	assert.False(t, in.Vars().HasPending())

	// A following declaration must not touch the resolved record.
	feedAll(t, in, `  const z = protect<UInt>("g()")`, "  //    ^ could = 7")

	x, ok := in.Vars().Get("x")
	require.True(t, ok)
	assert.Equal(t, "y", x.Name)
	assert.Equal(t, "true", x.Value)

	z, ok := in.Vars().Get("z")
	require.True(t, ok)
	assert.Equal(t, "7", z.Value)
	assert.Empty(t, z.Name)
}

func TestInspector_FormalizeSubstitution(t *testing.T) {
	in, buf := newTestInspector(t, ui.PlainPalette(), map[string]string{
		"/work/bal.rsh": "const bal = getBalance();\n",
	})

	feedAll(t, in,
		"// Violation Witness",
		`const h1 = protect<UInt>("getBalance()");`,
		"//  ^ could = 5",
		"//    from: /work/bal.rsh:1:7:application",
		"// Theorem Formalization",
		"  const v2 = h1 - 10;",
		"  //    ^ would be -5",
		"  assert(v2 >= 0 && h1 > 0);",
		"   ",
	)
	out := buf.String()

	assert.Contains(t, out, "\n  After these declarations:\n")
	assert.Contains(t, out, "\n  If we'd declare\n> const v2 = bal - 10\n  v2 would be -5\n\n")
	assert.True(t, strings.HasSuffix(out, "  assert(v2 >= 0 && bal > 0);\n"))
	assert.Equal(t, PhaseFormalize, in.Phase())
}

func TestInspector_LeavingFormalize(t *testing.T) {
	in, buf := newTestInspector(t, ui.PlainPalette(), nil)

	feedAll(t, in, "// Theorem Formalization", "  Verifying when NO participants are honest")

	assert.Contains(t, buf.String(), strings.Repeat("=", 81)+"\n\n- Verifying when NO participants are honest")

	// Leaving the witness section adds nothing.
	in, buf = newTestInspector(t, ui.PlainPalette(), nil)
	feedAll(t, in, "// Violation Witness")
	before := buf.Len()
	feedAll(t, in, "Verifying again")
	assert.Equal(t, "- Verifying again", buf.String()[before:])
}

func TestInspector_Colored(t *testing.T) {
	in, buf := newTestInspector(t, ui.NewPalette(ui.ColorAlways, nil), nil)

	require.NoError(t, in.InspectString(context.Background(), "Verifying a\nVerifying b\nVerification failed: oops"))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\x1b[36mVerification started\x1b[0m\n"))
	assert.Contains(t, out, "- Verifying a...\x1b[32mOK\x1b[0m\n")
	assert.Contains(t, out, "- Verifying b...\x1b[31mFAILED\x1b[0m\n")
	assert.Contains(t, out, "\x1b[31mVerification failed: oops\x1b[0m\n")
}

func TestInspector_FatalWithoutPending(t *testing.T) {
	in, buf := newTestInspector(t, ui.PlainPalette(), nil)

	require.NoError(t, in.Feed("// Violation Witness"))
	written := buf.String()

	err := in.Feed("  ^ could = 1")
	var fe *FatalError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Line)
	assert.Equal(t, "  ^ could = 1", fe.Text)
	assert.True(t, errors.Is(err, ErrNoPending))
	assert.Equal(t, written, buf.String())
}

func TestInspector_FatalMalformedLocation(t *testing.T) {
	in, buf := newTestInspector(t, ui.PlainPalette(), nil)

	err := in.InspectString(context.Background(), "Verification failed:\n  at ./index.rsh\nVerifying next")

	var fe *FatalError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Line)
	assert.Contains(t, fe.Error(), "transcript line 2")
	// The scan stopped: the next unit was never started.
	assert.NotContains(t, buf.String(), "Verifying next")
	assert.Contains(t, buf.String(), "Verification failed:")
}

func TestInspector_FatalMissingSource(t *testing.T) {
	in, _ := newTestInspector(t, ui.PlainPalette(), nil)

	feedAll(t, in, "Verification failed:")
	err := in.Feed("  at ./missing.rsh:1:1")
	assert.True(t, errors.Is(err, source.ErrNotFound))
}

func TestInspector_FatalNoConstInSource(t *testing.T) {
	in, _ := newTestInspector(t, ui.PlainPalette(), map[string]string{
		"/work/foo.rsh": "A.publish(x);\n",
	})

	feedAll(t, in, "// Violation Witness", `const x = protect<UInt>("f()")`)
	err := in.Feed("// from: /work/foo.rsh:1:3")

	var fe *FatalError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Reason, "no const declaration")
}

func TestInspector_ContextCanceled(t *testing.T) {
	in, _ := newTestInspector(t, ui.PlainPalette(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := in.InspectString(ctx, "Verifying a")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInspector_OnLine(t *testing.T) {
	var seen []int
	in := New(Config{
		Out:     &bytes.Buffer{},
		Palette: ui.PlainPalette(),
		OnLine:  func(n int, _ string) { seen = append(seen, n) },
	})

	require.NoError(t, in.Inspect(context.Background(), strings.NewReader("a\nb\nc")))
	assert.Equal(t, []int{1, 2, 3}, seen)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestInspector_WriteError(t *testing.T) {
	in := New(Config{Out: failingWriter{}, Palette: ui.PlainPalette()})

	err := in.InspectString(context.Background(), "Verifying a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
