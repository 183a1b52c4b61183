package usecase

import (
	"testing"

	"github.com/iamvkosarev/hecu-telegram-bot/config"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBinaryConfig = config.Binary{LengthLimit: 2500}

var testPhotoConfig = config.Photo{
	GroupLimit:          10,
	RandomDefaultSize:   800,
	RandomMaxSize:       5000,
	RandomAttemptFactor: 3,
	DailySearchLimit:    100,
}

func TestParsePhotoRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    model.PhotoRequest
		wantErr error
	}{
		{
			name: "query with default count",
			text: "black mesa",
			want: model.PhotoRequest{Mode: model.PhotoMode{Query: "black mesa"}, Count: 5},
		},
		{
			name: "query with count",
			text: "headcrab//3",
			want: model.PhotoRequest{Mode: model.PhotoMode{Query: "headcrab"}, Count: 3},
		},
		{
			name: "last separator wins",
			text: "http://example.com//2",
			want: model.PhotoRequest{Mode: model.PhotoMode{Query: "http://example.com"}, Count: 2},
		},
		{
			name: "random default size",
			text: "random",
			want: model.PhotoRequest{Mode: model.PhotoMode{Random: true, Width: 800, Height: 800}, Count: 5},
		},
		{
			name: "random square",
			text: "Random-300//1",
			want: model.PhotoRequest{Mode: model.PhotoMode{Random: true, Width: 300, Height: 300}, Count: 1},
		},
		{
			name: "random width and height",
			text: "random-640-480//10",
			want: model.PhotoRequest{Mode: model.PhotoMode{Random: true, Width: 640, Height: 480}, Count: 10},
		},
		{
			name: "random followed by words",
			text: "random stuff",
			want: model.PhotoRequest{Mode: model.PhotoMode{Random: true, Width: 800, Height: 800}, Count: 5},
		},
		{
			name: "word starting with random is a query",
			text: "randomness",
			want: model.PhotoRequest{Mode: model.PhotoMode{Query: "randomness"}, Count: 5},
		},
		{name: "count not a number", text: "cats//many", wantErr: model.ErrMalformedRequest},
		{name: "count zero", text: "cats//0", wantErr: model.ErrPhotoCountOutOfRange},
		{name: "count above limit", text: "cats//11", wantErr: model.ErrPhotoCountOutOfRange},
		{name: "empty query", text: "//3", wantErr: model.ErrMalformedRequest},
		{name: "bad random size", text: "random-big", wantErr: model.ErrMalformedRequest},
		{name: "random size too large", text: "random-6000", wantErr: model.ErrMalformedRequest},
		{name: "random too many sizes", text: "random-1-2-3", wantErr: model.ErrMalformedRequest},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				t.Parallel()

				got, err := ParsePhotoRequest(tt.text, testPhotoConfig)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			},
		)
	}
}

func TestPhotoCountOutOfRangeIsMalformed(t *testing.T) {
	t.Parallel()

	_, err := ParsePhotoRequest("cats//42", testPhotoConfig)
	assert.ErrorIs(t, err, model.ErrMalformedRequest)
}
