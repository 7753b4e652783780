package graph

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

type driveItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type driveListing struct {
	Value []driveItem `json:"value"`
}

const listSelect = "?$select=createdDateTime,lastModifiedDateTime,name,id"

// ResolveDriveID returns the configured drive id, or discovers the first
// drive of the group's root site when only a group id is configured.
func (c *Client) ResolveDriveID(ctx context.Context, groupID string) (string, error) {
	if c.driveID != "" {
		return c.driveID, nil
	}
	if groupID == "" {
		return "", fmt.Errorf("can't discover a drive without either a group id or a drive id")
	}
	var drives driveListing
	path := fmt.Sprintf("/groups/%s/sites/root/drives%s", groupID, listSelect)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &drives); err != nil {
		return "", fmt.Errorf("failed to list group drives: %w", err)
	}
	if len(drives.Value) == 0 {
		return "", fmt.Errorf("group %s has no drives", groupID)
	}
	c.driveID = drives.Value[0].ID
	log.Info().Str("drive_id", c.driveID).Msg("Discovered drive for group")
	return c.driveID, nil
}

// ResolveWorkbookID walks the drive's Spreadsheets folder looking for a
// workbook named "<name>.xlsx" and returns its item id. The resolved id is
// also installed on the client for subsequent workbook calls.
func (c *Client) ResolveWorkbookID(ctx context.Context, groupID, name string) (string, error) {
	driveID, err := c.ResolveDriveID(ctx, groupID)
	if err != nil {
		return "", err
	}

	var listing driveListing
	path := fmt.Sprintf("/drives/%s/root/children%s", driveID, listSelect)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &listing); err != nil {
		return "", fmt.Errorf("failed to list drive root: %w", err)
	}

	target := name + ".xlsx"
	for _, child := range listing.Value {
		if child.Name != "Spreadsheets" {
			continue
		}
		log.Debug().Str("folder_id", child.ID).Msg("Listing Spreadsheets folder")
		var sheets driveListing
		path := fmt.Sprintf("/drives/%s/items/%s/children%s", driveID, child.ID, listSelect)
		if err := c.do(ctx, http.MethodGet, path, "", nil, &sheets); err != nil {
			return "", fmt.Errorf("failed to list spreadsheets folder: %w", err)
		}
		for _, sheet := range sheets.Value {
			log.Debug().Str("name", sheet.Name).Str("id", sheet.ID).Msg("Considering spreadsheet")
			if sheet.Name == target {
				c.itemID = sheet.ID
				log.Info().Str("name", target).Str("item_id", sheet.ID).Msg("Resolved workbook item")
				return sheet.ID, nil
			}
		}
	}
	return "", fmt.Errorf("no spreadsheet named %s found in drive %s", target, driveID)
}
