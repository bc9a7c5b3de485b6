package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions for auto-migration. Event tables share the id/sequence/
// timestamp prefix so they can be ordered against each other through the
// global sequence.

var (
	roadmapsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString, Default: ""},
		{Name: "topic", Type: field.TypeString},
		{Name: "experience", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	roadmapsTable = &schema.Table{
		Name:       "roadmaps",
		Columns:    roadmapsColumns,
		PrimaryKey: []*schema.Column{roadmapsColumns[0]},
	}

	roadmapItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "roadmap_id", Type: field.TypeInt},
		{Name: "title", Type: field.TypeString},
		{Name: "summary", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "level", Type: field.TypeInt},
		{Name: "study_material", Type: field.TypeJSON, Nullable: true},
	}
	roadmapItemsTable = &schema.Table{
		Name:       "roadmap_items",
		Columns:    roadmapItemsColumns,
		PrimaryKey: []*schema.Column{roadmapItemsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "roadmap_items_roadmaps_items",
			Columns:    []*schema.Column{roadmapItemsColumns[1]},
			RefColumns: []*schema.Column{roadmapsColumns[0]},
			OnDelete:   schema.Cascade,
		}},
		Indexes: []*schema.Index{{
			Name:    "roadmapitem_roadmap_id_level",
			Columns: []*schema.Column{roadmapItemsColumns[1], roadmapItemsColumns[4]},
		}},
	}

	completedItemsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeInt},
		{Name: "completed_at", Type: field.TypeTime},
	}
	completedItemsTable = &schema.Table{
		Name:       "completed_items",
		Columns:    completedItemsColumns,
		PrimaryKey: []*schema.Column{completedItemsColumns[0], completedItemsColumns[1]},
		Indexes: []*schema.Index{{
			Name:    "completeditem_item_id",
			Columns: []*schema.Column{completedItemsColumns[1]},
		}},
	}

	discoveryStatesColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "total_unlocks", Type: field.TypeInt, Default: 0},
		{Name: "acknowledged_at", Type: field.TypeInt, Default: 0},
		{Name: "visible", Type: field.TypeBool, Default: true},
		{Name: "updated_at", Type: field.TypeTime},
	}
	discoveryStatesTable = &schema.Table{
		Name:       "discovery_states",
		Columns:    discoveryStatesColumns,
		PrimaryKey: []*schema.Column{discoveryStatesColumns[0]},
	}

	graphNodesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "label", Type: field.TypeString},
		{Name: "node_type", Type: field.TypeString},
		{Name: "roadmap_id", Type: field.TypeInt},
		{Name: "group_index", Type: field.TypeInt, Nullable: true},
	}
	graphNodesTable = &schema.Table{
		Name:       "graph_nodes",
		Columns:    graphNodesColumns,
		PrimaryKey: []*schema.Column{graphNodesColumns[0]},
		Indexes: []*schema.Index{{
			Name:    "graphnode_roadmap_id",
			Columns: []*schema.Column{graphNodesColumns[3]},
		}},
	}

	graphEdgesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "source", Type: field.TypeString},
		{Name: "target", Type: field.TypeString},
		{Name: "relationship", Type: field.TypeString},
		{Name: "weight", Type: field.TypeFloat64},
	}
	graphEdgesTable = &schema.Table{
		Name:       "graph_edges",
		Columns:    graphEdgesColumns,
		PrimaryKey: []*schema.Column{graphEdgesColumns[0]},
		Indexes: []*schema.Index{{
			Name:    "graphedge_source_target",
			Unique:  true,
			Columns: []*schema.Column{graphEdgesColumns[1], graphEdgesColumns[2]},
		}},
	}

	attemptEventsColumns = eventColumns(
		&schema.Column{Name: "user_id", Type: field.TypeString},
		&schema.Column{Name: "item_id", Type: field.TypeInt},
		&schema.Column{Name: "score", Type: field.TypeInt},
		&schema.Column{Name: "total_questions", Type: field.TypeInt},
		&schema.Column{Name: "perfect", Type: field.TypeBool},
		&schema.Column{Name: "new_unlock", Type: field.TypeBool},
	)
	attemptEventsTable = eventTable("attempt_events", attemptEventsColumns)

	discoveryEventsColumns = eventColumns(
		&schema.Column{Name: "user_id", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "total_unlocks", Type: field.TypeInt},
		&schema.Column{Name: "phase", Type: field.TypeInt},
		&schema.Column{Name: "detail", Type: field.TypeString, Default: ""},
	)
	discoveryEventsTable = eventTable("discovery_events", discoveryEventsColumns)

	llmRequestEventsColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
	)
	llmRequestEventsTable = eventTable("llm_request_events", llmRequestEventsColumns)

	tables = []*schema.Table{
		roadmapsTable,
		roadmapItemsTable,
		completedItemsTable,
		discoveryStatesTable,
		graphNodesTable,
		graphEdgesTable,
		attemptEventsTable,
		discoveryEventsTable,
		llmRequestEventsTable,
	}
)

func init() {
	roadmapItemsTable.ForeignKeys[0].RefTable = roadmapsTable
}

// eventColumns prefixes the shared event columns.
func eventColumns(cols ...*schema.Column) []*schema.Column {
	base := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(base, cols...)
}

func eventTable(name string, cols []*schema.Column) *schema.Table {
	return &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{{
			Name:    name + "_timestamp",
			Columns: []*schema.Column{cols[2]},
		}},
	}
}
