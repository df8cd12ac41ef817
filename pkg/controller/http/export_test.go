package http

var VerifySlackSignature = verifySlackSignature

var ErrorStatus = errorStatus
