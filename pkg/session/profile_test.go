package session_test

import (
	"testing"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/kv"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/resolver"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/session"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/status"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/testutil"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ProfileNeedsBothSwitches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		siteEnabled     bool
		workflowEnabled bool
		expectedPrompt  string
		expectedCounts  status.Counts
	}{
		{"both on", true, true, "Hello Acme", status.Counts{Filled: 1, Total: 1}},
		{"site off", false, true, "Hello {company_name}", status.Counts{Filled: 0, Total: 1}},
		{"workflow off", true, false, "Hello {company_name}", status.Counts{Filled: 0, Total: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wf := testutil.CreateTestWorkflow(
				testutil.WithProfileEnabled(tt.workflowEnabled),
				testutil.WithWorkflowVar(testutil.WorkflowVar("company_name", "text", true)),
				testutil.WithStep("s1", "Hello {company_name}"),
			)

			s, err := session.New(session.Config{ProfileEnabled: tt.siteEnabled}, wf, session.Deps{
				Storage: kv.NewMemory(0),
				Profile: resolver.NewStaticProfile(map[string]string{"company_name": "Acme"}),
				Clock:   clockwork.NewFakeClock(),
			})
			require.NoError(t, err)

			prompt, err := s.Prompt("s1")
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPrompt, prompt)
			assert.Equal(t, tt.expectedCounts, s.Counts())
		})
	}
}

func TestSession_StepOverridesWorkflowValue(t *testing.T) {
	t.Parallel()

	wf := testutil.CreateTestWorkflow(
		testutil.WithWorkflowVar(testutil.WorkflowVar("audience", "text", false)),
		testutil.WithStep("s1", "For {audience}", testutil.StepVar("audience", "text", false)),
		testutil.WithStep("s2", "Also for {audience}"),
	)

	s, err := session.New(session.Config{}, wf, session.Deps{Storage: kv.NewMemory(0), Clock: clockwork.NewFakeClock()})
	require.NoError(t, err)

	s.RenderAll()

	shared, ok := s.Control("", "audience")
	require.True(t, ok)
	shared.Change("developers")

	local, ok := s.Control("s1", "audience")
	require.True(t, ok)
	local.Change("designers")

	p1, err := s.Prompt("s1")
	require.NoError(t, err)
	assert.Equal(t, "For designers", p1)

	p2, err := s.Prompt("s2")
	require.NoError(t, err)
	assert.Equal(t, "Also for developers", p2)
}
