package loader

import (
	"fmt"
	"regexp"

	"github.com/yangbooom/mentions-go/internal/markup"
)

func compileRegex(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: regex %q: %v", markup.ErrConfig, expr, err)
	}
	return re, nil
}
