package lib

import (
	stdErr "errors"

	"github.com/friendsofgo/errors"
	"github.com/xeipuuv/gojsonschema"
)

// ValidateJSONSchema validates payload against the schema.
// All schema violations are joined into the returned error.
func ValidateJSONSchema(schema gojsonschema.JSONLoader, payload []byte) error {
	validationResult, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to validate")
	} else if !validationResult.Valid() {
		resultErrors := validationResult.Errors()
		validationErrors := make([]error, len(resultErrors))
		for i, validationError := range resultErrors {
			validationErrors[i] = errors.New(validationError.String())
		}

		return stdErr.Join(validationErrors...)
	}
	return nil
}
