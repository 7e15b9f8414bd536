package email

var BuildSMTPMessage = buildSMTPMessage
