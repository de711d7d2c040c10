package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/cache"
	"github.com/matzehuels/albumgrid/pkg/errors"
	"github.com/matzehuels/albumgrid/pkg/grouped"
	"github.com/matzehuels/albumgrid/pkg/observability"
)

var testOpts = Options{MaxWidth: 300, MinWidth: Float(50), Spacing: Float(8)}

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, quietLogger())
	t.Cleanup(func() { r.Close() })
	return r
}

func squares(n int) *album.Album {
	a := &album.Album{Name: "squares"}
	for i := 0; i < n; i++ {
		a.Items = append(a.Items, album.Entry{Width: 100, Height: 100})
	}
	return a
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("NewRunner should fill defaults: %+v", r)
	}
	if r.Logger == log.Default() {
		t.Error("NewRunner without a logger should discard output, not use the default logger")
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	opts := testOpts
	opts.Formats = []string{FormatJSON, FormatSVG}

	res, err := r.Execute(ctx, squares(2), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Layout.Width != 300 || res.Layout.Height != 146 {
		t.Errorf("bounds = %vx%v, want 300x146", res.Layout.Width, res.Layout.Height)
	}
	if res.Stats.Items != 2 || res.Stats.Strategy != res.Layout.Strategy {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.SizesHash == "" {
		t.Error("SizesHash should be set")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", res.CacheInfo)
	}
	if len(res.Artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2", len(res.Artifacts))
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact should be an SVG document")
	}

	again, err := r.Execute(ctx, squares(2), opts)
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", again.CacheInfo)
	}
	if !bytes.Equal(again.Artifacts[FormatJSON], res.Artifacts[FormatJSON]) {
		t.Error("cached JSON artifact differs")
	}
	if len(again.Layout.Items) != 2 || again.Layout.Items[1].Geometry.X != 154 {
		t.Errorf("cached layout = %+v", again.Layout)
	}

	opts.Refresh = true
	fresh, err := r.Execute(ctx, squares(2), opts)
	if err != nil {
		t.Fatalf("Execute (refresh): %v", err)
	}
	if fresh.CacheInfo.LayoutHit || fresh.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass cache: %+v", fresh.CacheInfo)
	}
}

func TestExecuteUsesAlbumConstraints(t *testing.T) {
	a := squares(2)
	a.Layout = album.LayoutOf(grouped.Constraints{MaxWidth: 200, MinWidth: 50})

	res, err := NewRunner(nil, nil, quietLogger()).Execute(context.Background(), a, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Layout.Width != 200 {
		t.Errorf("width = %v, want album max_width 200", res.Layout.Width)
	}
}

func TestExecuteKeepsZeroConstraints(t *testing.T) {
	sizes := []grouped.Size{{W: 50, H: 100}, {W: 100, H: 100}}
	want := []grouped.Rect{{X: 0, Y: 0, Width: 100, Height: 200}, {X: 100, Y: 0, Width: 200, Height: 200}}
	zero := Float(0)

	tests := []struct {
		name   string
		layout *album.Layout
		opts   Options
	}{
		{"album", &album.Layout{MaxWidth: 300, MinWidth: zero, Spacing: zero}, Options{}},
		{"options", nil, Options{MaxWidth: 300, MinWidth: zero, Spacing: zero}},
		{"options over album", &album.Layout{MaxWidth: 300, MinWidth: Float(50), Spacing: Float(8)},
			Options{MinWidth: zero, Spacing: zero}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := album.FromSizes(sizes)
			a.Layout = tt.layout

			res, err := NewRunner(nil, nil, quietLogger()).Execute(context.Background(), a, tt.opts)
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			direct, err := grouped.Compute(sizes, grouped.Constraints{MaxWidth: 300})
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			for i, it := range res.Layout.Items {
				if it.Geometry != want[i] || it.Geometry != direct.Items[i].Geometry {
					t.Errorf("item %d = %+v, want %+v", i, it.Geometry, want[i])
				}
			}
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	if _, err := r.Execute(ctx, &album.Album{}, testOpts); !errors.Is(err, errors.ErrCodeInvalidAlbum) {
		t.Errorf("empty album: got %v", err)
	}

	opts := testOpts
	opts.Formats = []string{"pdf"}
	if _, err := r.Execute(ctx, squares(2), opts); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: got %v", err)
	}
}

func TestComputeLayoutRejectsBadSizes(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.ComputeLayout(context.Background(), []grouped.Size{{W: 0, H: 10}}, testOpts)
	if !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("got %v, want INVALID_SIZE", err)
	}
}

func TestRenderDrawImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png"} {
		writeTestPNG(t, filepath.Join(dir, name))
	}
	a := &album.Album{
		Name:   "photos",
		Source: filepath.Join(dir, "album.json"),
		Items: []album.Entry{
			{Path: "a.png", Width: 20, Height: 20},
			{Path: "b.png", Width: 20, Height: 20},
		},
	}

	opts := testOpts
	opts.Formats = []string{FormatSVG, FormatPNG, FormatJSON}
	opts.DrawImages = true

	res, err := NewRunner(nil, nil, quietLogger()).Execute(context.Background(), a, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), filepath.Join(dir, "a.png")) {
		t.Error("svg should reference the resolved image path")
	}
	if !strings.Contains(string(res.Artifacts[FormatJSON]), `"path"`) {
		t.Error("json should record item paths")
	}
	img, err := png.Decode(bytes.NewReader(res.Artifacts[FormatPNG]))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if c := color.NRGBAModel.Convert(img.At(73, 73)).(color.NRGBA); c.G != 255 {
		t.Errorf("tile center = %v, want the green test image", c)
	}
}

func TestRenderMissingImage(t *testing.T) {
	a := &album.Album{
		Source: filepath.Join(t.TempDir(), "album.json"),
		Items:  []album.Entry{{Path: "gone.png", Width: 10, Height: 10}},
	}
	opts := testOpts
	opts.Formats = []string{FormatPNG}
	opts.DrawImages = true

	_, err := NewRunner(nil, nil, quietLogger()).Execute(context.Background(), a, opts)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("got %v, want FILE_NOT_FOUND", err)
	}
}

func TestCacheHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)

	r := newTestRunner(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(ctx, squares(3), testOpts); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.hits["layout"] != 1 || hooks.misses["layout"] != 1 {
		t.Errorf("layout hits/misses = %d/%d, want 1/1", hooks.hits["layout"], hooks.misses["layout"])
	}
	if hooks.sets["layout"] != 1 || hooks.sets["artifact"] != 1 {
		t.Errorf("sets = %v", hooks.sets)
	}
}

func TestBatch(t *testing.T) {
	r := newTestRunner(t)
	albums := []*album.Album{squares(1), {Name: "empty"}, squares(5)}

	results, err := r.Batch(context.Background(), albums, testOpts, 2)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, res := range results {
		if res.Album != albums[i] {
			t.Errorf("result %d is out of order", i)
		}
	}
	if results[1].Err == nil {
		t.Error("empty album should fail")
	}
	if results[2].Err != nil || results[2].Result.Layout.Strategy != grouped.StrategyRowPartitions {
		t.Errorf("five items: %+v", results[2])
	}
	if n := Failed(results); n != 1 {
		t.Errorf("Failed = %d, want 1", n)
	}
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewRunner(nil, nil, quietLogger()).Batch(ctx, []*album.Album{squares(2)}, testOpts, 1)
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(results) != 1 || results[0].Err == nil {
		t.Errorf("cancelled album should record an error: %+v", results)
	}
}

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

type countingCacheHooks struct {
	mu                 sync.Mutex
	hits, misses, sets map[string]int
}

func (h *countingCacheHooks) bump(m *map[string]int, k string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if *m == nil {
		*m = map[string]int{}
	}
	(*m)[k]++
}

func (h *countingCacheHooks) OnCacheHit(_ context.Context, k string)        { h.bump(&h.hits, k) }
func (h *countingCacheHooks) OnCacheMiss(_ context.Context, k string)       { h.bump(&h.misses, k) }
func (h *countingCacheHooks) OnCacheSet(_ context.Context, k string, _ int) { h.bump(&h.sets, k) }
