package provider

// Table names.
const (
	TableForms     = "forms"
	TableInstances = "instances"
	TableMedia     = "media"
)

// ID is the primary key column shared by every table.
const ID = "_id"

// FormsColumns names the forms table columns.
var FormsColumns = struct {
	ID, DisplayName, JrFormID, JrVersion, FormFilePath, FormMediaPath, Date string
}{
	ID:            ID,
	DisplayName:   "displayName",
	JrFormID:      "jrFormId",
	JrVersion:     "jrVersion",
	FormFilePath:  "formFilePath",
	FormMediaPath: "formMediaPath",
	Date:          "date",
}

// InstanceColumns names the instances table columns.
var InstanceColumns = struct {
	ID, DisplayName, InstanceFilePath, JrFormID, JrVersion, Status, LastStatusChangeDate, InstanceID string
}{
	ID:                   ID,
	DisplayName:          "displayName",
	InstanceFilePath:     "instanceFilePath",
	JrFormID:             "jrFormId",
	JrVersion:            "jrVersion",
	Status:               "status",
	LastStatusChangeDate: "lastStatusChangeDate",
	InstanceID:           "instanceId",
}

// MediaColumns names the media table columns. DisplayName is the column
// media.Namer reads a file name from.
var MediaColumns = struct {
	ID, DisplayName, MimeType, Data string
}{
	ID:          ID,
	DisplayName: "_display_name",
	MimeType:    "mime_type",
	Data:        "_data",
}

// Content types reported by Store.Type for non-media rows.
const (
	FormItemType     = "vnd.android.cursor.item/vnd.odk.form"
	FormDirType      = "vnd.android.cursor.dir/vnd.odk.form"
	InstanceItemType = "vnd.android.cursor.item/vnd.odk.instance"
	InstanceDirType  = "vnd.android.cursor.dir/vnd.odk.instance"
	MediaDirType     = "vnd.android.cursor.dir/vnd.odk.media"
)
