package notification

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func strptr(s string) *string { return &s }

func TestCreate_RenotifyRequiresTag(t *testing.T) {
	tests := []struct {
		name     string
		renotify bool
		tag      string
		wantErr  error
	}{
		{name: "renotify without tag fails", renotify: true, tag: "", wantErr: ErrRenotifyRequiresTag},
		{name: "renotify with tag succeeds", renotify: true, tag: "t1"},
		{name: "no renotify without tag succeeds", renotify: false, tag: ""},
	}

	f := NewFactory(nil, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := f.Create("hello", Options{Renotify: tt.renotify, Tag: tt.tag}, "origin-a", nil, 1000)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.tag, rec.Tag())
			assert.Equal(t, tt.renotify, rec.Renotify())
		})
	}
}

func TestCreate_URLResolution(t *testing.T) {
	base := mustParseURL(t, "https://example.com/app/")

	tests := []struct {
		name string
		base *url.URL
		icon string
		want string // "" = absent
	}{
		{name: "relative resolves against base", base: base, icon: "i.png", want: "https://example.com/app/i.png"},
		{name: "absolute ignores base", base: base, icon: "https://cdn.example.com/x.png", want: "https://cdn.example.com/x.png"},
		{name: "malformed yields absent", base: base, icon: "http://exa mple.com/i.png", want: ""},
		{name: "relative without base yields absent", base: nil, icon: "i.png", want: ""},
		{name: "absolute without base resolves", base: nil, icon: "https://example.com/i.png", want: "https://example.com/i.png"},
	}

	f := NewFactory(nil, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := f.Create("hello", Options{Icon: strptr(tt.icon)}, "origin-a", tt.base, 1000)
			require.NoError(t, err, "URL resolution failure must never fail creation")
			if tt.want == "" {
				assert.Nil(t, rec.IconURL())
			} else {
				require.NotNil(t, rec.IconURL())
				assert.Equal(t, tt.want, rec.IconURL().String())
			}
		})
	}
}

func TestCreate_AllURLFieldsIndependent(t *testing.T) {
	base := mustParseURL(t, "https://example.com/app/")
	f := NewFactory(nil, 0)

	rec, err := f.Create("hello", Options{
		Navigate: strptr("page"),
		Image:    strptr("http://exa mple.com/broken.png"),
		Icon:     strptr("i.png"),
		// Badge not supplied at all
	}, "origin-a", base, 1000)
	require.NoError(t, err)

	require.NotNil(t, rec.NavigationURL())
	assert.Equal(t, "https://example.com/app/page", rec.NavigationURL().String())
	assert.Nil(t, rec.ImageURL(), "malformed image must be absent, not an error")
	require.NotNil(t, rec.IconURL())
	assert.Nil(t, rec.BadgeURL(), "unsupplied badge must be absent")
}

func TestCreate_Timestamp(t *testing.T) {
	f := NewFactory(nil, 0)

	rec, err := f.Create("hello", Options{}, "origin-a", nil, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rec.Timestamp(), "timestamp falls back when not supplied")

	ts := int64(42)
	rec, err = f.Create("hello", Options{Timestamp: &ts}, "origin-a", nil, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.Timestamp())
}

func TestCreate_ActionTruncation(t *testing.T) {
	actions := []ActionOptions{
		{Name: "a1", Title: "First"},
		{Name: "a2", Title: "Second"},
		{Name: "a3", Title: "Third"},
	}

	tests := []struct {
		name      string
		cap       int
		wantNames []string
	}{
		{name: "cap zero drops all", cap: 0, wantNames: nil},
		{name: "cap two keeps first two in order", cap: 2, wantNames: []string{"a1", "a2"}},
		{name: "cap above length keeps all", cap: 5, wantNames: []string{"a1", "a2", "a3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFactory(nil, tt.cap)
			rec, err := f.Create("hello", Options{Actions: actions}, "origin-a", nil, 1000)
			require.NoError(t, err, "excess actions are dropped silently, never an error")

			got := rec.Actions()
			require.Len(t, got, len(tt.wantNames))
			for i, name := range tt.wantNames {
				assert.Equal(t, name, got[i].Name())
			}
		})
	}
}

func TestCreate_ActionURLResolution(t *testing.T) {
	base := mustParseURL(t, "https://example.com/app/")
	f := NewFactory(nil, 2)

	rec, err := f.Create("hello", Options{Actions: []ActionOptions{
		{Name: "open", Title: "Open", Navigate: strptr("inbox"), Icon: strptr("http://exa mple.com/a.png")},
	}}, "origin-a", base, 1000)
	require.NoError(t, err)

	got := rec.Actions()
	require.Len(t, got, 1)
	require.NotNil(t, got[0].NavigationURL())
	assert.Equal(t, "https://example.com/app/inbox", got[0].NavigationURL().String())
	assert.Nil(t, got[0].IconURL())
}

func TestCreate_SilentTriState(t *testing.T) {
	f := NewFactory(nil, 0)

	rec, err := f.Create("hello", Options{}, "origin-a", nil, 1000)
	require.NoError(t, err)
	_, ok := rec.Silent()
	assert.False(t, ok, "silent is unset when not supplied")

	for _, want := range []bool{true, false} {
		silent := want
		rec, err = f.Create("hello", Options{Silent: &silent}, "origin-a", nil, 1000)
		require.NoError(t, err)
		got, ok := rec.Silent()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestCreate_DataSerialization(t *testing.T) {
	f := NewFactory(JSONCodec{}, 0)

	rec, err := f.Create("hello", Options{Data: map[string]any{"count": float64(3)}}, "origin-a", nil, 1000)
	require.NoError(t, err)

	v, err := JSONCodec{}.Deserialize(rec.Data())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": float64(3)}, v)

	// Channels cannot be serialized for storage.
	_, err = f.Create("hello", Options{Data: make(chan int)}, "origin-a", nil, 1000)
	require.ErrorIs(t, err, ErrDataNotSerializable)
}

type fakeSettings struct {
	origin Origin
	base   *url.URL
	now    time.Time
}

func (s fakeSettings) Origin() Origin             { return s.origin }
func (s fakeSettings) APIBaseURL() *url.URL       { return s.base }
func (s fakeSettings) CurrentWallTime() time.Time { return s.now }

func TestCreateWithSettings(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	settings := fakeSettings{
		origin: "https://example.com",
		base:   mustParseURL(t, "https://example.com/app/"),
		now:    now,
	}

	f := NewFactory(nil, 0)
	rec, err := f.CreateWithSettings("hello", Options{Icon: strptr("i.png")}, settings)
	require.NoError(t, err)

	assert.Equal(t, Origin("https://example.com"), rec.Origin())
	assert.Equal(t, now.UnixMilli(), rec.Timestamp())
	require.NotNil(t, rec.IconURL())
	assert.Equal(t, "https://example.com/app/i.png", rec.IconURL().String())
}

func TestRecord_Immutability(t *testing.T) {
	base := mustParseURL(t, "https://example.com/app/")
	f := NewFactory(nil, 2)

	rec, err := f.Create("hello", Options{
		Icon:    strptr("i.png"),
		Data:    "payload",
		Actions: []ActionOptions{{Name: "a1", Title: "First"}},
	}, "origin-a", base, 1000)
	require.NoError(t, err)

	// Mutating returned values must not affect subsequent reads.
	u := rec.IconURL()
	u.Path = "/tampered"
	assert.Equal(t, "https://example.com/app/i.png", rec.IconURL().String())

	data := rec.Data()
	data[0] = 'X'
	assert.NotEqual(t, data[0], rec.Data()[0])

	actions := rec.Actions()
	actions[0] = Action{}
	assert.Equal(t, "a1", rec.Actions()[0].Name())
}

func TestDirection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Direction
		wantErr bool
	}{
		{name: "empty defaults to auto", input: "", want: DirectionAuto},
		{name: "auto", input: "auto", want: DirectionAuto},
		{name: "ltr", input: "ltr", want: DirectionLTR},
		{name: "rtl", input: "rtl", want: DirectionRTL},
		{name: "unknown fails", input: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, "unknown", got.String())
		})
	}
}
