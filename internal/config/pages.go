package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/ethpandaops/psi-sampler/internal/format"
	"github.com/ethpandaops/psi-sampler/internal/sampling"
	"gopkg.in/yaml.v3"
)

var (
	errLabelRequired   = errors.New("page label is required")
	errDuplicateLabel  = errors.New("duplicate page label")
	errReportCollision = errors.New("page labels share a report file name")
	errInvalidPageURL  = errors.New("page url must be an absolute http(s) url")
	errUnknownPage     = errors.New("unknown page label")
	errNoPagesSelected = errors.New("no pages selected")
)

// PageSet is the on-disk layout of a pages file.
type PageSet struct {
	Pages []sampling.PageTarget `yaml:"pages"`
}

// DefaultPages returns the built-in page set used when no pages file exists.
func DefaultPages() []sampling.PageTarget {
	return []sampling.PageTarget{
		{Label: "auto", URL: "https://www.bankrate.com/insurance/car/switching-carriers/"},
		{Label: "home", URL: "https://www.bankrate.com/insurance/homeowners-insurance/best-home-insurance-companies/"},
		{Label: "life", URL: "https://www.bankrate.com/insurance/life-insurance/best-life-insurance-companies/"},
	}
}

// LoadPages reads a YAML page set from path. A missing file yields the
// built-in default set.
func LoadPages(path string) ([]sampling.PageTarget, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPages(), nil
		}

		return nil, fmt.Errorf("reading pages file %s: %w", path, err)
	}

	var set PageSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: parsing pages file %s: %v", sampling.ErrConfiguration, path, err)
	}

	for i := range set.Pages {
		set.Pages[i].Label = strings.TrimSpace(set.Pages[i].Label)
		set.Pages[i].URL = strings.TrimSpace(set.Pages[i].URL)
	}

	if err := ValidateTargets(set.Pages); err != nil {
		return nil, fmt.Errorf("pages file %s: %w", path, err)
	}

	return set.Pages, nil
}

// ValidateTargets checks that targets is non-empty, labels are unique and
// every URL is absolute.
func ValidateTargets(targets []sampling.PageTarget) error {
	if len(targets) == 0 {
		return fmt.Errorf("%w: %v", sampling.ErrConfiguration, errNoPagesSelected)
	}

	seen := make(map[string]struct{}, len(targets))
	files := make(map[string]string, len(targets))

	for _, target := range targets {
		if err := validateTarget(target); err != nil {
			return err
		}

		if _, ok := seen[target.Label]; ok {
			return fmt.Errorf("%w: %v: %s", sampling.ErrConfiguration, errDuplicateLabel, target.Label)
		}

		seen[target.Label] = struct{}{}

		// Case-folded so case-insensitive filesystems can't collide either.
		file := strings.ToLower(format.FileLabel(target.Label))
		if other, ok := files[file]; ok {
			return fmt.Errorf("%w: %v: %q and %q", sampling.ErrConfiguration, errReportCollision, other, target.Label)
		}

		files[file] = target.Label
	}

	return nil
}

// NewAdHocTarget builds a validated target from a user supplied URL and label.
func NewAdHocTarget(rawURL, label string) (sampling.PageTarget, error) {
	target := sampling.PageTarget{
		Label: strings.TrimSpace(label),
		URL:   strings.TrimSpace(rawURL),
	}

	if err := validateTarget(target); err != nil {
		return sampling.PageTarget{}, err
	}

	return target, nil
}

// SelectPages returns the targets whose labels are listed, in the order given.
// A label listed twice is selected once. An empty selection returns every
// target.
func SelectPages(targets []sampling.PageTarget, labels []string) ([]sampling.PageTarget, error) {
	if len(labels) == 0 {
		return targets, nil
	}

	byLabel := make(map[string]sampling.PageTarget, len(targets))
	for _, target := range targets {
		byLabel[target.Label] = target
	}

	selected := make([]sampling.PageTarget, 0, len(labels))
	picked := make(map[string]struct{}, len(labels))

	for _, label := range labels {
		label = strings.TrimSpace(label)

		target, ok := byLabel[label]
		if !ok {
			return nil, fmt.Errorf("%w: %v: %s", sampling.ErrConfiguration, errUnknownPage, label)
		}

		if _, dup := picked[label]; dup {
			continue
		}

		picked[label] = struct{}{}
		selected = append(selected, target)
	}

	return selected, nil
}

// ValidateURL reports whether raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %v: %q", sampling.ErrConfiguration, errInvalidPageURL, raw)
	}

	return nil
}

func validateTarget(target sampling.PageTarget) error {
	if target.Label == "" {
		return fmt.Errorf("%w: %v (url %s)", sampling.ErrConfiguration, errLabelRequired, target.URL)
	}

	return ValidateURL(target.URL)
}
