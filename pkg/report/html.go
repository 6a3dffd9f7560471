package report

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/tim-richter/spinne/pkg/workspace"
)

//go:embed component-graph.html
var htmlTemplate string

// graphDataPlaceholder is replaced with the canonical report JSON.
const graphDataPlaceholder = "{{GRAPH_DATA}}"

// GenerateHTML embeds the canonical report JSON into the visualization
// template.
func GenerateHTML(reports []workspace.Report) (string, error) {
	data, err := json.Marshal(reports)
	if err != nil {
		return "", err
	}
	// </script> inside a component name would terminate the inline data
	// block early; escape the closing slash.
	safe := strings.ReplaceAll(string(data), "</", "<\\/")
	return strings.Replace(htmlTemplate, graphDataPlaceholder, safe, 1), nil
}
