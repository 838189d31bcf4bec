package artifact

import "github.com/google/uuid"

// Object keys follow the layout the rest of the platform expects:
//
//	calculations/{calc-uuid}.json
//	errors/{error-uuid}.json
//	test/data-{uuid}.json
//	{customerID}/uploaded/{img-uuid}_original.jpg
//	{customerID}/saved-result/{img-uuid}_result.jpg
//	models/{filename}

// NewCalculationID generates an item ID for a calculation record.
func NewCalculationID() string {
	return "calc-" + uuid.NewString()
}

// NewErrorID generates an item ID for an error record.
func NewErrorID() string {
	return "error-" + uuid.NewString()
}

// NewImageID generates an item ID for an uploaded or derived image.
func NewImageID() string {
	return "img-" + uuid.NewString()
}

// NewTestID generates an item ID for a storage self-test record.
func NewTestID() string {
	return "test-" + uuid.NewString()
}

// CalculationKey returns the object key for a calculation payload.
func CalculationKey(calculationID string) string {
	return "calculations/" + calculationID + ".json"
}

// ErrorKey returns the object key for an error payload.
func ErrorKey(errorID string) string {
	return "errors/" + errorID + ".json"
}

// TestDataKey returns the object key for a storage self-test payload.
func TestDataKey() string {
	return "test/data-" + uuid.NewString() + ".json"
}

// OriginalImageKey returns the object key for a customer's uploaded image.
func OriginalImageKey(customerID, imageID string) string {
	return customerID + "/uploaded/" + imageID + "_original.jpg"
}

// ResultImageKey returns the object key for an annotated detection result.
func ResultImageKey(customerID, imageID string) string {
	return customerID + "/saved-result/" + imageID + "_result.jpg"
}

// ModelKey returns the object key for a model weight file.
func ModelKey(filename string) string {
	return "models/" + filename
}

// ModelPrefix is the object prefix holding model weights.
const ModelPrefix = "models/"
