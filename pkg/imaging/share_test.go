package imaging_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intellia-hq/mailroom/pkg/imaging"
)

func TestResolveShareURL(t *testing.T) {
	t.Parallel()

	const want = "https://drive.google.com/uc?export=view&id=FILE123"

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "file path pattern",
			in:   "https://drive.google.com/file/d/FILE123/view?usp=sharing",
			want: want,
		},
		{
			name: "bare d path pattern",
			in:   "https://drive.google.com/d/FILE123",
			want: want,
		},
		{
			name: "query parameter pattern",
			in:   "https://drive.google.com/open?id=FILE123",
			want: want,
		},
		{
			name: "docs host",
			in:   "https://docs.google.com/uc?id=FILE123",
			want: want,
		},
		{
			name: "unrecognized host unchanged",
			in:   "https://example.com/file/d/FILE123/view",
			want: "https://example.com/file/d/FILE123/view",
		},
		{
			name: "recognized host without id unchanged",
			in:   "https://drive.google.com/drive/my-drive",
			want: "https://drive.google.com/drive/my-drive",
		},
		{
			name: "malformed url unchanged",
			in:   "http://drive.google.com/%zz",
			want: "http://drive.google.com/%zz",
		},
		{
			name: "empty string unchanged",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, imaging.ResolveShareURL(tt.in))
		})
	}
}
