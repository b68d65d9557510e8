package report

import (
	"github.com/ethpandaops/psi-sampler/internal/sampling"
	"github.com/fatih/color"
)

// ColorHelper provides utilities for coloring terminal output
type ColorHelper struct {
	enabled bool
}

// NewColorHelper creates a new color helper
// Colors are enabled only when outputting to a terminal
func NewColorHelper() *ColorHelper {
	return &ColorHelper{
		enabled: !color.NoColor,
	}
}

// Success returns green colored text
func (c *ColorHelper) Success(text string) string {
	if !c.enabled {
		return text
	}
	return color.GreenString(text)
}

// Failure returns red colored text
func (c *ColorHelper) Failure(text string) string {
	if !c.enabled {
		return text
	}
	return color.RedString(text)
}

// Warning returns yellow colored text
func (c *ColorHelper) Warning(text string) string {
	if !c.enabled {
		return text
	}
	return color.YellowString(text)
}

// Muted returns gray colored text
func (c *ColorHelper) Muted(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.FgHiBlack).Sprint(text)
}

// Bold returns bold text
func (c *ColorHelper) Bold(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.Bold).Sprint(text)
}

// Header returns bold cyan text for section headers
func (c *ColorHelper) Header(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.FgCyan, color.Bold).Sprint(text)
}

// FormatCategory colors a merged category by how bad it is
func (c *ColorHelper) FormatCategory(category sampling.Category) string {
	text := category.String()

	switch category {
	case sampling.CategoryFast:
		return c.Success(text)
	case sampling.CategoryAverage:
		return c.Warning(text)
	case sampling.CategorySlow:
		return c.Failure(text)
	default:
		return c.Muted(text)
	}
}

// FormatStatus returns appropriately colored status text
func (c *ColorHelper) FormatStatus(ok bool) string {
	if ok {
		return c.Success("✓ OK")
	}
	return c.Failure("✗ FAILED")
}
