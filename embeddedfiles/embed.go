package embeddedfiles

import "embed"

//go:embed all:sample_config
var SampleConfig embed.FS

const SampleConfigBasePath = "sample_config"
