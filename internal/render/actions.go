package render

import "context"

// EditLinker builds the edit form URL of a record.
type EditLinker interface {
	Edit(resource string, id int64) (string, error)
}

// Actions composes the Edit link and the Delete trigger of a row.
type Actions struct {
	Links EditLinker
}

func (Actions) Kind() Kind { return KindActions }

func (r Actions) Render(_ context.Context, target Target, _ any) Cell {
	cell := Cell{Kind: KindActions}
	if r.Links != nil {
		if href, err := r.Links.Edit(target.Resource, target.RecordID); err == nil && href != "" {
			cell.Actions = append(cell.Actions, Action{
				Name:     ActionEdit,
				Label:    "Edit",
				Href:     href,
				RecordID: target.RecordID,
			})
		}
	}
	cell.Actions = append(cell.Actions, Action{
		Name:     ActionDelete,
		Label:    "Delete",
		RecordID: target.RecordID,
	})
	return cell
}
