package configurator

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/austingheath/configurator/logging"
	"github.com/austingheath/configurator/utils"
	"github.com/austingheath/configurator/workspace"
)

// Result is the configuration found for a WorkspaceSpec.
type Result struct {
	ID           string                `json:"id"`
	DHParameters [][]float64           `json:"dhParameters"`
	NumJoints    int                   `json:"numJoints"`
	Reach        workspace.ReachBounds `json:"reach"`
	// Solutions are the joint angles reaching each target: points, then orientations, then poses.
	Solutions [][]float64 `json:"solutions"`
	Stats     Stats       `json:"stats"`
}

// Solve finds the smallest chain in the search space of cfg that reaches everything in spec.
func Solve(ctx context.Context, spec WorkspaceSpec, cfg Config, logger logging.Logger) (*Result, error) {
	targets, err := spec.Targets()
	if err != nil {
		return nil, err
	}
	searcher, err := NewSearcher(cfg, logger)
	if err != nil {
		return nil, err
	}
	node, err := searcher.Search(ctx, targets)
	if err != nil {
		return nil, err
	}
	return &Result{
		ID:           node.ID.String(),
		DHParameters: node.Chain.Slices(),
		NumJoints:    node.Chain.NumJoints(),
		Reach:        node.Bounds,
		Solutions:    node.Solutions,
		Stats:        searcher.Stats(),
	}, nil
}

// Table renders the DH parameters one joint per row, with alpha in degrees.
func (r *Result) Table() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Alpha", "A", "D"})
	for i, p := range r.DHParameters {
		t.AppendRow(table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f°", utils.RadToDeg(p[0])),
			fmt.Sprintf("%g", p[1]),
			fmt.Sprintf("%g", p[2]),
		})
	}
	t.AppendFooter(table.Row{"", "Reach", fmt.Sprintf("%g", r.Reach.Min), fmt.Sprintf("%g", r.Reach.Max)})
	return t.Render()
}
