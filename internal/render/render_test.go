package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/esreport/pkg/model"
)

func sampleTable() *model.Table {
	t := model.NewTable([]string{"host", "message"})
	t.Append(
		model.Row{"host": "web-1", "message": "disk full"},
		model.Row{"host": "web-2", "message": "<script>alert(1)</script>"},
	)
	return t
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Renderer
		wantErr bool
	}{
		{"", JSON{}, false},
		{"json", JSON{}, false},
		{"HTML", HTML{}, false},
		{" text ", Text{}, false},
		{"pdf", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForFormat(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTML_Render(t *testing.T) {
	out, err := HTMLString(sampleTable())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<table border='1' cellpadding='10' cellspacing='0' style='border-collapse:collapse;'>"))
	assert.Contains(t, out, "<thead><tr><th>host</th><th>message</th></tr></thead>")
	assert.Contains(t, out, "<tr><td>web-1</td><td>disk full</td></tr>")
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, out, "<script>")
	assert.True(t, strings.HasSuffix(out, "</tbody></table>"))
}

func TestHTML_RenderEmpty(t *testing.T) {
	out, err := HTMLString(model.NewTable([]string{"a"}))
	require.NoError(t, err)
	assert.Contains(t, out, "<th>a</th>")
	assert.Contains(t, out, "<tbody></tbody>")
}

func TestText_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text{}.Render(&buf, sampleTable()))

	out := buf.String()
	assert.Contains(t, out, "host")
	assert.Contains(t, out, "message")
	assert.Contains(t, out, "web-1")
	assert.Contains(t, out, "disk full")
}

func TestJSON_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON{}.Render(&buf, sampleTable()))

	var got struct {
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []string{"host", "message"}, got.Columns)
	assert.Equal(t, [][]string{{"web-1", "disk full"}, {"web-2", "<script>alert(1)</script>"}}, got.Rows)
}

func TestContentTypes(t *testing.T) {
	assert.Equal(t, "application/json", JSON{}.ContentType())
	assert.Equal(t, "text/html; charset=utf-8", HTML{}.ContentType())
	assert.Equal(t, "text/plain; charset=utf-8", Text{}.ContentType())
}
