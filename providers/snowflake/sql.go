package snowflake

import (
	"fmt"
	"sort"
	"strings"

	"github.com/frostline-io/frostline/internal/platform"
	"github.com/frostline-io/frostline/internal/spec"
)

// objectWord maps a kind to the DDL object word.
var objectWord = map[spec.Kind]string{
	spec.KindDatabase:          "DATABASE",
	spec.KindSchema:            "SCHEMA",
	spec.KindRole:              "ROLE",
	spec.KindWarehouse:         "WAREHOUSE",
	spec.KindStage:             "STAGE",
	spec.KindNetworkRule:       "NETWORK RULE",
	spec.KindAccessIntegration: "EXTERNAL ACCESS INTEGRATION",
	spec.KindComputePool:       "COMPUTE POOL",
	spec.KindModel:             "MODEL",
	spec.KindNotebook:          "NOTEBOOK",
	spec.KindService:           "SERVICE",
}

// showWord maps a kind to its SHOW plural.
var showWord = map[spec.Kind]string{
	spec.KindDatabase:          "DATABASES",
	spec.KindSchema:            "SCHEMAS",
	spec.KindRole:              "ROLES",
	spec.KindWarehouse:         "WAREHOUSES",
	spec.KindStage:             "STAGES",
	spec.KindNetworkRule:       "NETWORK RULES",
	spec.KindAccessIntegration: "EXTERNAL ACCESS INTEGRATIONS",
	spec.KindComputePool:       "COMPUTE POOLS",
	spec.KindModel:             "MODELS",
	spec.KindNotebook:          "NOTEBOOKS",
	spec.KindService:           "SERVICES",
}

// attributeColumn maps the generic back-reference attribute onto the SHOW
// output column that carries it.
var attributeColumn = map[string]string{
	platform.AttrManagedBy: "managing_object_name",
}

func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func quoteList(csv string) string {
	parts := strings.Split(csv, ",")
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			quoted = append(quoted, quote(p))
		}
	}
	return strings.Join(quoted, ", ")
}

// renderCreate returns the DDL for one resource, honoring the kind's
// create mode.
func renderCreate(res *spec.Resource) (string, error) {
	opts := res.Options
	switch res.Kind {
	case spec.KindRole, spec.KindDatabase, spec.KindSchema:
		return fmt.Sprintf("CREATE OR REPLACE %s %s", objectWord[res.Kind], res.Name), nil

	case spec.KindWarehouse:
		return fmt.Sprintf(
			"CREATE OR REPLACE WAREHOUSE %s WAREHOUSE_SIZE = %s AUTO_SUSPEND = %s INITIALLY_SUSPENDED = %s",
			res.Name, quote(opts["warehouse_size"]), opts["auto_suspend"], strings.ToUpper(opts["initially_suspended"]),
		), nil

	case spec.KindStage:
		return fmt.Sprintf(
			"CREATE STAGE IF NOT EXISTS %s ENCRYPTION = (TYPE = %s) DIRECTORY = (ENABLE = TRUE)",
			res.Name, quote(opts["encryption"]),
		), nil

	case spec.KindNetworkRule:
		return fmt.Sprintf(
			"CREATE OR REPLACE NETWORK RULE %s TYPE = %s MODE = %s VALUE_LIST = (%s)",
			res.Name, opts["type"], opts["mode"], quoteList(opts["value_list"]),
		), nil

	case spec.KindAccessIntegration:
		return fmt.Sprintf(
			"CREATE OR REPLACE EXTERNAL ACCESS INTEGRATION %s ALLOWED_NETWORK_RULES = (%s) ENABLED = %s",
			res.Name, opts["allowed_network_rules"], strings.ToUpper(opts["enabled"]),
		), nil

	case spec.KindComputePool:
		return fmt.Sprintf(
			"CREATE COMPUTE POOL IF NOT EXISTS %s MIN_NODES = %s MAX_NODES = %s INSTANCE_FAMILY = %s AUTO_SUSPEND_SECS = %s",
			res.Name, opts["min_nodes"], opts["max_nodes"], opts["instance_family"], opts["auto_suspend_secs"],
		), nil

	case spec.KindModel:
		return fmt.Sprintf("CREATE OR REPLACE MODEL %s FROM %s", res.Name, quote(opts["stage"])), nil

	case spec.KindNotebook:
		stmt := fmt.Sprintf(
			"CREATE OR REPLACE NOTEBOOK %s FROM %s MAIN_FILE = %s QUERY_WAREHOUSE = %s",
			res.Name, quote(opts["stage"]), quote(opts["main_file"]), opts["warehouse"],
		)
		if pool := opts["compute_pool"]; pool != "" {
			stmt += " COMPUTE_POOL = " + pool
		}
		return stmt, nil

	default:
		return "", platform.Configuration(fmt.Sprintf("no create statement for kind %s", res.Kind))
	}
}

// renderDrop returns the if-exists drop for a resource.
func renderDrop(kind spec.Kind, name string) (string, error) {
	word, ok := objectWord[kind]
	if !ok {
		return "", platform.Configuration(fmt.Sprintf("no drop statement for kind %s", kind))
	}
	return fmt.Sprintf("DROP %s IF EXISTS %s", word, name), nil
}

// renderShow returns the scope listing for a kind, optionally narrowed to
// one name.
func renderShow(kind spec.Kind, scope, like string) (string, error) {
	word, ok := showWord[kind]
	if !ok {
		return "", platform.Configuration(fmt.Sprintf("no listing for kind %s", kind))
	}
	stmt := "SHOW " + word
	if like != "" {
		stmt += " LIKE " + quote(unqualified(like))
	}
	if scope != "" {
		stmt += " IN SCHEMA " + scope
	}
	return stmt, nil
}

// renderAlter returns the statements for an option change set. Notebook
// attachment needs two: adopting the freshly published live version and
// enabling external access.
func renderAlter(kind spec.Kind, name string, options map[string]string) ([]string, error) {
	word, ok := objectWord[kind]
	if !ok {
		return nil, platform.Configuration(fmt.Sprintf("no alter statement for kind %s", kind))
	}

	var stmts []string
	var sets []string

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := options[k]
		switch k {
		case "add_live_version":
			if v == "true" {
				stmts = append(stmts, fmt.Sprintf("ALTER %s %s ADD LIVE VERSION FROM LAST", word, name))
			}
		case "external_access_integrations":
			sets = append(sets, fmt.Sprintf("EXTERNAL_ACCESS_INTEGRATIONS = (%s)", v))
		case "main_file":
			sets = append(sets, "MAIN_FILE = "+quote(v))
		default:
			sets = append(sets, fmt.Sprintf("%s = %s", strings.ToUpper(k), quote(v)))
		}
	}

	if len(sets) > 0 {
		stmts = append(stmts, fmt.Sprintf("ALTER %s %s SET %s", word, name, strings.Join(sets, " ")))
	}
	return stmts, nil
}

// unqualified strips the database/schema prefix for LIKE matching, which
// works on bare object names.
func unqualified(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
