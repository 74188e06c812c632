package graphclient

import (
	"spgovern/domain/directory"
)

// Wire-to-domain mapping. Filtering rules that are part of the client
// contract (folders only, no "Forms") live here.

func mapSites(items []siteJSON) []*directory.Site {
	sites := make([]*directory.Site, 0, len(items))
	for _, item := range items {
		sites = append(sites, &directory.Site{
			ID:          item.ID,
			Name:        item.Name,
			DisplayName: item.DisplayName,
			WebURL:      item.WebURL,
		})
	}
	return sites
}

func mapDrives(items []driveJSON) []*directory.Drive {
	drives := make([]*directory.Drive, 0, len(items))
	for _, item := range items {
		drives = append(drives, &directory.Drive{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
		})
	}
	return drives
}

func mapFolders(items []driveItemJSON) []*directory.FolderItem {
	folders := make([]*directory.FolderItem, 0, len(items))
	for _, item := range items {
		if item.Folder == nil || item.Name == formsFolderName {
			continue
		}
		folder := &directory.FolderItem{
			ID:     item.ID,
			Name:   item.Name,
			WebURL: item.WebURL,
		}
		if item.ParentReference != nil {
			folder.ParentID = item.ParentReference.ID
		}
		folders = append(folders, folder)
	}
	return folders
}

func mapPermissions(items []permissionJSON) []*directory.Permission {
	permissions := make([]*directory.Permission, 0, len(items))
	for _, item := range items {
		permission := &directory.Permission{
			ID:    item.ID,
			Roles: item.Roles,
		}
		if g := item.GrantedToV2.Group; g != nil {
			permission.Group = &directory.Group{ID: g.ID, DisplayName: g.DisplayName}
		}
		if sg := item.GrantedToV2.SiteGroup; sg != nil {
			permission.SiteGroup = sg.DisplayName
		}
		permissions = append(permissions, permission)
	}
	return permissions
}

func mapGroups(items []groupJSON) []*directory.Group {
	groups := make([]*directory.Group, 0, len(items))
	for _, item := range items {
		groups = append(groups, &directory.Group{
			ID:          item.ID,
			DisplayName: item.DisplayName,
			Description: item.Description,
		})
	}
	return groups
}

// mapMemberOfGroups keeps group-typed entries only; directory roles share
// the memberOf listing but are a distinct principal kind.
func mapMemberOfGroups(items []directoryObjectJSON) []*directory.Group {
	groups := make([]*directory.Group, 0, len(items))
	for _, item := range items {
		if item.ODataType != odataTypeGroup {
			continue
		}
		groups = append(groups, &directory.Group{
			ID:          item.ID,
			DisplayName: item.DisplayName,
			Description: item.Description,
		})
	}
	return groups
}

func mapUsers(items []userJSON) []*directory.User {
	users := make([]*directory.User, 0, len(items))
	for _, item := range items {
		users = append(users, &directory.User{
			ID:                item.ID,
			DisplayName:       item.DisplayName,
			UserPrincipalName: item.UserPrincipalName,
			Mail:              item.Mail,
		})
	}
	return users
}
