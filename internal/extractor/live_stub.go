//go:build !windows

package extractor

import (
	"errors"

	"github.com/ppiankov/xlspectre/pkg/config"
)

// The live strategy needs the Excel COM object model, which only exists on
// Windows. Everywhere else the archive strategy is the supported path.
func newLiveExtractor(_ *config.Config) (Extractor, error) {
	return nil, errors.New("the live-application strategy requires Microsoft Excel on Windows; use --strategy archive")
}
