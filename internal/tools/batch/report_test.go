package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		report Report
	}{
		{
			name: "parallel",
			report: Report{
				Description: "refresh project state",
				Sequential:  false,
				Results: []Result{
					{Tool: "git_status", Index: 0, Success: true, Content: "clean"},
				},
			},
		},
		{
			name: "sequential",
			report: Report{
				Description: "build then test",
				Sequential:  true,
				Results: []Result{
					{Tool: "execute_shell_script", Index: 0, Success: false, Error: "exit status 1"},
				},
				Skipped: 1,
			},
		},
		{
			name: "description with punctuation",
			report: Report{
				Description: "scan src/: step 1 - inventory",
				Sequential:  true,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			description, sequential, err := ParseReportHeader(tc.report.Render())
			require.NoError(t, err)
			assert.Equal(t, tc.report.Description, description)
			assert.Equal(t, tc.report.Sequential, sequential)
		})
	}
}

func TestParseReportHeaderMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "empty",
			text: "",
			want: "missing batch operation line",
		},
		{
			name: "missing mode line",
			text: "Batch Operation: lonely header",
			want: "missing execution mode line",
		},
		{
			name: "wrong first line",
			text: "Execution Mode: Parallel\nBatch Operation: swapped",
			want: "missing batch operation line",
		},
		{
			name: "unknown mode",
			text: "Batch Operation: odd\nExecution Mode: Concurrent\n",
			want: `unknown execution mode "Concurrent"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseReportHeader(tc.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
