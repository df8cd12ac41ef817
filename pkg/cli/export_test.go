package cli

var GetIndexConfig = getIndexConfig
var ReadDocuments = readDocuments
