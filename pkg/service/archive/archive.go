package archive

import (
	"path"
	"strings"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
)

// ObjectKey returns the object path of a document: <prefix>/<store short id>/<file name>
func ObjectKey(prefix string, storeID model.StoreID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "unnamed"
	}
	return strings.TrimPrefix(path.Join(prefix, storeID.Short(), name), "/")
}
