package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	common_models "store-console/internal/common/models"
	"store-console/internal/features/advpermission"
	"store-console/internal/features/audit"
	"store-console/internal/features/role"
	"store-console/pkg/policy"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExportService interface {
	ExportRolePolicy(ctx context.Context, roleID string, format string) ([]byte, string, error)
}

type ExportServiceImpl struct {
	RoleService  role.RoleService
	AdvService   advpermission.AdvPermissionService
	AuditService audit.AuditService
}

func NewExportService(roleService role.RoleService, advService advpermission.AdvPermissionService, auditService audit.AuditService) ExportService {
	return &ExportServiceImpl{
		RoleService:  roleService,
		AdvService:   advService,
		AuditService: auditService,
	}
}

// ExportRolePolicy renders a role's compiled policies as a spreadsheet,
// one row per compiled permission.
func (s *ExportServiceImpl) ExportRolePolicy(ctx context.Context, roleID string, format string) ([]byte, string, error) {
	r, err := s.RoleService.GetRoleByID(ctx, roleID)
	if err != nil {
		return nil, "", err
	}

	policies, err := s.AdvService.ListPolicies(ctx, roleID)
	if err != nil {
		return nil, "", err
	}

	rows := buildRows(policies)

	var data []byte
	var filename string
	switch format {
	case "", "xlsx":
		data, filename, err = s.toExcel(rows, r.Name)
	case "csv":
		data, filename, err = s.toCSV(rows, r.Name)
	default:
		return nil, "", fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, "", err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionExport, "advanced-permissions", roleID, map[string]common_models.Change{
		"export": {New: filename},
	})

	return data, filename, nil
}

var exportColumns = []string{"Module", "Feature", "Permission", "Active", "Components", "Actions", "Conditions", "Updated"}

type exportRow struct {
	ModuleKey     string
	FeatureKey    string
	PermissionKey string
	IsActive      bool
	Components    string
	Actions       string
	Conditions    string
	UpdatedAt     time.Time
}

func buildRows(policies []advpermission.RolePolicy) []exportRow {
	var rows []exportRow
	for _, rp := range policies {
		for _, p := range rp.Compiled {
			rows = append(rows, exportRow{
				ModuleKey:     rp.ModuleKey,
				FeatureKey:    rp.FeatureKey,
				PermissionKey: p.PermissionKey,
				IsActive:      p.IsActive,
				Components:    formatComponents(p.Components),
				Actions:       formatActions(p.Actions),
				Conditions:    formatConditions(p.Conditions),
				UpdatedAt:     rp.UpdatedAt,
			})
		}
	}
	return rows
}

// formatComponents accepts both in-memory shapes of the compiled
// components field and the bson primitives it decodes to when a policy
// is read back from Mongo.
func formatComponents(components interface{}) string {
	switch v := components.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(v, ", ")
	case []policy.CompiledComponent:
		var parts []string
		for _, c := range v {
			parts = append(parts, c.ComponentKey)
		}
		return strings.Join(parts, ", ")
	case primitive.A:
		var parts []string
		for _, entry := range v {
			switch e := entry.(type) {
			case string:
				parts = append(parts, e)
			case primitive.D:
				if key, ok := e.Map()["component_key"].(string); ok {
					parts = append(parts, key)
				}
			case primitive.M:
				if key, ok := e["component_key"].(string); ok {
					parts = append(parts, key)
				}
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatActions(actions []int) string {
	var parts []string
	for _, a := range actions {
		parts = append(parts, fmt.Sprintf("%d", a))
	}
	return strings.Join(parts, ", ")
}

func formatConditions(conditions []policy.CompiledCondition) string {
	var parts []string
	for _, c := range conditions {
		parts = append(parts, fmt.Sprintf("%s=%s", c.ConditionKey, strings.Join(c.Values, "|")))
	}
	return strings.Join(parts, "; ")
}

func (s *ExportServiceImpl) toExcel(rows []exportRow, roleName string) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Policy"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		values := []interface{}{
			row.ModuleKey,
			row.FeatureKey,
			row.PermissionKey,
			row.IsActive,
			row.Components,
			row.Actions,
			row.Conditions,
			row.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 20)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_policy_%s.xlsx", roleName, time.Now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}

func (s *ExportServiceImpl) toCSV(rows []exportRow, roleName string) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportColumns); err != nil {
		return nil, "", err
	}

	for _, row := range rows {
		record := []string{
			row.ModuleKey,
			row.FeatureKey,
			row.PermissionKey,
			fmt.Sprintf("%t", row.IsActive),
			row.Components,
			row.Actions,
			row.Conditions,
			row.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_policy_%s.csv", roleName, time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}
