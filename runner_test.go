package advisor_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/advisor"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, r *advisor.Runner, script string) string {
	t.Helper()
	eng, err := advisor.New()
	require.NoError(t, err)

	var out bytes.Buffer
	r.Input = strings.NewReader(script)
	r.Output = &out
	require.NoError(t, r.Run(context.Background(), eng))
	return out.String()
}

func TestRunner_BrandSelectionToResult(t *testing.T) {
	r := advisor.NewRunner(nil, nil)
	// nutram, cat, adult cat
	out := runScript(t, r, "1\n2\n2\nq\n")

	assert.Contains(t, out, "Choose a brand")
	assert.Contains(t, out, "`S5`")
	assert.Contains(t, out, "`T24`")
	assert.NotContains(t, out, "I12X")
	assert.Contains(t, out, "Bye!")
}

func TestRunner_PreselectedBrandAndBack(t *testing.T) {
	r := advisor.NewRunner(nil, nil)
	r.Brand = domain.BrandNutram
	r.Headless = true
	out := runScript(t, r, "2\nb\n1\n1\n")

	// Back from cat_age lands on the species page again, then dog, then puppy.
	assert.Equal(t, 2, strings.Count(out, "לאיזו חיית מחמד אתם מחפשים מזון?"))
	assert.NotContains(t, out, "Bye!")
	assert.NotContains(t, out, "> ")
}

func TestRunner_InvalidInput(t *testing.T) {
	r := advisor.NewRunner(nil, nil)
	r.Brand = domain.BrandBritCare
	out := runScript(t, r, "9\nfoo\nq\n")
	assert.Equal(t, 2, strings.Count(out, "unrecognized input"))
}

func TestRunner_ResetReturnsToBrands(t *testing.T) {
	r := advisor.NewRunner(nil, nil)
	r.Brand = domain.BrandCarnilove
	out := runScript(t, r, "reset\nnutram\n")
	assert.Contains(t, out, "Choose a brand")
	assert.Contains(t, out, "לאיזו חיית מחמד אתם מחפשים מזון?")
}

func TestRunner_RequiresIO(t *testing.T) {
	eng, err := advisor.New()
	require.NoError(t, err)
	assert.Error(t, (&advisor.Runner{}).Run(context.Background(), eng))
}

func TestRunner_UsesRenderer(t *testing.T) {
	r := advisor.NewRunner(nil, nil)
	r.Brand = domain.BrandNutram
	r.Renderer = func(s string) (string, error) { return strings.ToUpper(s), nil }
	out := runScript(t, r, "")
	assert.Contains(t, out, "[NUMBER] ANSWER")
}
