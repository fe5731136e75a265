package platform

import "strings"

// CopyToDestinationSnippet copies the built source into $DESTINATION_DIR unless
// both point at the same directory.
func CopyToDestinationSnippet() string {
	return strings.Join([]string{
		`if [ "$SOURCE_DIR" != "$DESTINATION_DIR" ]; then`,
		`    echo "Copying files to destination directory '$DESTINATION_DIR'..."`,
		`    mkdir -p "$DESTINATION_DIR"`,
		`    cp -a "$SOURCE_DIR/." "$DESTINATION_DIR"`,
		`fi`,
	}, "\n")
}

// PropertyBool reads a boolean build property. Unset and unparsable values are
// false.
func (bc *BuildContext) PropertyBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(bc.Properties[key])) {
	case "true", "1", "yes", "y", "on":
		return true
	}
	return false
}
