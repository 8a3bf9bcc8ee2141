// Package seeds embeds the demo seed data so both the service and the
// posutil command apply the same catalog and floor plan.
package seeds

import "embed"

//go:embed seed.json
var FS embed.FS
