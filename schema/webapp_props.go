package schema

import (
	_ "embed"
	"encoding/json"
	"regexp"

	"github.com/friendsofgo/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/schoolyear/webapp-cli/lib"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed webapp_properties.schema.json
var propertiesSchema []byte
var schemaLoader = gojsonschema.NewBytesLoader(propertiesSchema)

// WebappProperties is the optional config file of the sample run.
// Empty fields fall back to flags or defaults.
type WebappProperties struct {
	Location         string            `json:"location,omitempty"`
	ResourceGroup    string            `json:"resourceGroup,omitempty"`
	HostingPlan      string            `json:"hostingPlan,omitempty"`
	Site             string            `json:"site,omitempty"`
	Tags             map[string]string `json:"tags,omitempty"`
	RegisterProvider bool              `json:"registerProvider,omitempty"`
}

var (
	locationRegex      = regexp.MustCompile(`^[a-z0-9]+$`)
	resourceGroupRegex = regexp.MustCompile(`^[-\w._()]+$`)
	hostingPlanRegex   = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	siteRegex          = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]$`)
)

func (w WebappProperties) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Location, validation.Match(locationRegex).Error("must be a region name like westus")),
		validation.Field(&w.ResourceGroup, validation.Length(1, 90), validation.Match(resourceGroupRegex)),
		validation.Field(&w.HostingPlan, validation.Length(1, 60), validation.Match(hostingPlanRegex)),
		validation.Field(&w.Site, validation.Length(2, 60), validation.Match(siteRegex)),
		validation.Field(&w.Tags, validation.Length(0, 50)),
	)
}

// LoadWebappProperties reads, schema checks and validates a .json or .json5 properties file
func LoadWebappProperties(path string) (*WebappProperties, error) {
	data, _, err := lib.ReadJSONOrJSON5AsJSON(path)
	if err != nil {
		return nil, err
	}

	if err := lib.ValidateJSONSchema(schemaLoader, data); err != nil {
		return nil, errors.Wrap(err, "properties file does not match schema")
	}

	var props WebappProperties
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, errors.Wrap(err, "failed to parse properties file")
	}

	if err := props.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid properties file")
	}

	return &props, nil
}
