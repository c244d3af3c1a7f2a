package email

import (
	"testing"

	"campusbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_ReviewOutcome(t *testing.T) {
	r := NewTemplateRenderer()

	tests := []struct {
		name        string
		data        *domain.ReviewOutcomeEmailData
		wantSubject string
		wantText    string
	}{
		{
			name:        "approved",
			data:        &domain.ReviewOutcomeEmailData{Name: "Alice", Title: "Hackathon", Approved: true, EventID: 12},
			wantSubject: `Your event "Hackathon" was approved`,
			wantText:    "event #12",
		},
		{
			name:        "rejected with notes",
			data:        &domain.ReviewOutcomeEmailData{Name: "Alice", Title: "Hackathon", AdminNotes: "Clashes with finals week"},
			wantSubject: `Your event request "Hackathon" was not approved`,
			wantText:    "Clashes with finals week",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, html, text, err := r.Render("review_outcome", tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSubject, subject)
			assert.Contains(t, text, tt.wantText)
			assert.Contains(t, html, "Hackathon")
		})
	}
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("missing", nil)
	assert.Error(t, err)
}

func TestTemplateRenderer_EscapesHTML(t *testing.T) {
	data := &domain.ReviewOutcomeEmailData{Name: "<b>x</b>", Title: "T"}
	_, html, _, err := NewTemplateRenderer().Render("review_outcome", data)
	require.NoError(t, err)
	assert.NotContains(t, html, "<b>x</b>")
}
