package mongo

const (
	store        = "quickscribe"
	statusTable  = "status"
	resultTable  = "result"
	requestTable = "request"
)

var indexData = []IndexData{
	newIndexData(statusTable, "ID", true),
	newIndexData(resultTable, "ID", true),
	newIndexData(requestTable, "ID", true)}
