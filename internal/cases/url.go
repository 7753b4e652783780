package cases

import (
	"encoding/base64"
	"fmt"
	"net/url"
)

const siteURL = "https://arcse.sharepoint.com/:x:/r/sites/healthline"

// RowURL builds a deep link that opens the workbook with the given row
// selected. The nav parameter encodes the A:H cell span of the row,
// base64url without padding.
func RowURL(workbookName string, row int) string {
	path := fmt.Sprintf("/Shared%%20Documents/Spreadsheets/%s.xlsx", url.PathEscape(workbookName))
	nav := fmt.Sprintf("12_A%d:H%d_{00000000-0001-0000-0000-000000000000}", row, row)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(nav))
	return siteURL + path + "?web=1&nav=" + encoded
}
