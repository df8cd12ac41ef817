package usecase

// ParseQuestions is exported for testing
var ParseQuestions = parseQuestions

// ExtractStoreID is exported for testing
var ExtractStoreID = extractStoreID
