package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrintParams_Portrait(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{HTML: "<html>test</html>"})

	// A4 is 210mm x 297mm
	assert.InDelta(t, mmToInches(210), params.paperWidth, 0.01)
	assert.InDelta(t, mmToInches(297), params.paperHeight, 0.01)
	assert.InDelta(t, mmToInches(12), params.margin, 0.001)
	assert.False(t, params.landscape)
	assert.Equal(t, 1.0, params.scale)
}

func TestBuildPrintParams_Landscape(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{HTML: "<html>test</html>", Landscape: true})

	assert.True(t, params.landscape)
}

func TestBuildCompleteHTML_WithDoctype(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	html := "<!DOCTYPE html><html><head></head><body>test</body></html>"
	result := r.buildCompleteHTML(&RenderRequest{HTML: html})

	// Returned as-is since it has DOCTYPE
	assert.Equal(t, html, result)
}

func TestBuildCompleteHTML_FragmentOnly(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	result := r.buildCompleteHTML(&RenderRequest{
		HTML:  "<div>Hello World</div>",
		Title: "Test Document",
	})

	assert.Contains(t, result, "<!DOCTYPE html>")
	assert.Contains(t, result, "<meta charset=\"UTF-8\">")
	assert.Contains(t, result, "<title>Test Document</title>")
	assert.Contains(t, result, "<div>Hello World</div>")
	assert.Contains(t, result, "</body></html>")
}

func TestMmToInches(t *testing.T) {
	tests := []struct {
		mm       float64
		expected float64
	}{
		{0, 0},
		{25.4, 1.0},
		{210, 8.2677},  // A4 width
		{297, 11.6929}, // A4 height
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, mmToInches(tt.mm), 0.001)
	}
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("%PDF-1.4 /Type /Pages /Type /Page /Type /Page trailer")
	assert.Equal(t, 2, estimatePageCount(pdf))

	// Never reports zero pages
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF-1.4")))
}

func TestRenderError(t *testing.T) {
	cause := assert.AnError
	err := NewRenderError(ErrCodeRenderFailed, "something broke", cause)

	assert.Contains(t, err.Error(), "something broke")
	assert.Contains(t, err.Error(), cause.Error())
	assert.Equal(t, cause, err.Unwrap())

	bare := NewRenderError(ErrCodeInvalidHTML, "empty", nil)
	assert.Equal(t, "empty", bare.Error())
}

func TestChromedpRenderer_Close(t *testing.T) {
	// Close doesn't panic with nil allocCancel
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	assert.NoError(t, r.Close())
}

func TestChromedpRenderer_Render_InvalidInput(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{DefaultTimeout: defaultChromeTimeout}}

	_, err := r.Render(context.Background(), nil)
	assert.Error(t, err)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "   "})
	assert.Error(t, err)

	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}
