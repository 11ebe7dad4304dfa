package suites

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"

	"ctp/internal/catalog"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

func init() {
	register(Suite{
		Name:    "sqlbuild",
		Library: "github.com/doug-martin/goqu/v9, github.com/jmoiron/sqlx",
		Cases:   sqlbuildCases,
		Rules: []harness.Rule{
			harness.PrefixRule(harness.KindInvalidArgument, "goqu: "),
			harness.PrefixRule(harness.KindInvalidArgument, "empty slice passed to 'in' query"),
			harness.PrefixRule(harness.KindInvalidArgument, "number of bindVars"),
			harness.PrefixRule(harness.KindNotFound, "could not find name"),
		},
		Operations: []catalog.Operation{
			catalog.Unary("sqlx.RebindDollar", catalog.StringArg, func(q string) (string, error) {
				return sqlx.Rebind(sqlx.DOLLAR, q), nil
			}),
			{
				Name:  "sqlx.In",
				Arity: 2,
				Bind: func(args []any) (catalog.Invocation, error) {
					q, err := catalog.StringArg(args, 0)
					if err != nil {
						return nil, err
					}
					return func() (any, error) {
						query, _, err := sqlx.In(q, args[1])
						return query, err
					}, nil
				},
			},
		},
	})
}

type sqlStatement interface {
	ToSQL() (string, []any, error)
}

// toSQL builds the statement inside the invocation so no attempt reuses a dataset
func toSQL(build func() sqlStatement) func(any) (any, error) {
	return harness.Call(func() (string, error) {
		sql, _, err := build().ToSQL()
		return sql, err
	})
}

func sqlbuildCases() []harness.Case {
	const suite = "sqlbuild"
	pg := goqu.Dialect("postgres")
	return []harness.Case{
		{
			Suite: suite, Name: "goqu-select-where", Partition: domain.PartitionHappy,
			Invoke: toSQL(func() sqlStatement { return pg.From("items").Where(goqu.C("id").Eq(10)) }),
			Expect: harness.Returns(`SELECT * FROM "items" WHERE ("id" = 10)`),
		},
		{
			Suite: suite, Name: "goqu-select-prepared", Partition: domain.PartitionHappy,
			Invoke: toSQL(func() sqlStatement { return pg.From("items").Prepared(true).Where(goqu.C("id").Eq(10)) }),
			Expect: harness.Returns(`SELECT * FROM "items" WHERE ("id" = $1)`),
		},
		{
			Suite: suite, Name: "goqu-eq-nil-is-null", Partition: domain.PartitionNull,
			Invoke: toSQL(func() sqlStatement { return pg.From("items").Where(goqu.C("deleted_at").Eq(nil)) }),
			Expect: harness.Returns(`SELECT * FROM "items" WHERE ("deleted_at" IS NULL)`),
		},
		{
			Suite: suite, Name: "goqu-insert-record", Partition: domain.PartitionHappy,
			Invoke: toSQL(func() sqlStatement { return pg.Insert("items").Rows(goqu.Record{"name": "a"}) }),
			Expect: harness.Returns(`INSERT INTO "items" ("name") VALUES ('a')`),
		},
		{
			Suite: suite, Name: "goqu-quotes-string-literal", Partition: domain.PartitionBoundary,
			Invoke: toSQL(func() sqlStatement { return pg.From("items").Where(goqu.C("name").Eq("o'brien")) }),
			Expect: harness.Returns(`SELECT * FROM "items" WHERE ("name" = 'o''brien')`),
		},
		{
			Suite: suite, Name: "goqu-update-without-set", Partition: domain.PartitionEmpty,
			Invoke: toSQL(func() sqlStatement { return pg.Update("items") }),
			Expect: harness.Fails(harness.KindInvalidArgument, "no set values found"),
			Repeat: 2,
		},
		{
			Suite: suite, Name: "sqlx-in-expands", Partition: domain.PartitionHappy,
			Invoke: harness.Call(func() (string, error) {
				q, _, err := sqlx.In("SELECT * FROM t WHERE id IN (?)", []int{1, 2, 3})
				return q, err
			}),
			Expect: harness.Returns("SELECT * FROM t WHERE id IN (?, ?, ?)"),
		},
		{
			Suite: suite, Name: "sqlx-in-flattens-args", Partition: domain.PartitionHappy,
			Invoke: harness.Call(func() ([]any, error) {
				_, args, err := sqlx.In("SELECT * FROM t WHERE a = ? AND id IN (?)", "x", []int{1, 2})
				return args, err
			}),
			Expect: harness.Returns([]any{"x", 1, 2}),
		},
		{
			Suite: suite, Name: "sqlx-in-empty-slice", Partition: domain.PartitionEmpty,
			Invoke: harness.Call(func() (string, error) {
				q, _, err := sqlx.In("SELECT * FROM t WHERE id IN (?)", []int{})
				return q, err
			}),
			Expect: harness.Fails(harness.KindInvalidArgument, "empty slice passed to 'in' query"),
		},
		{
			Suite: suite, Name: "sqlx-in-nil-slice", Partition: domain.PartitionNull,
			Invoke: harness.Call(func() (string, error) {
				q, _, err := sqlx.In("SELECT * FROM t WHERE id IN (?)", []int(nil))
				return q, err
			}),
			Expect: harness.Fails(harness.KindInvalidArgument, "empty slice"),
		},
		{
			Suite: suite, Name: "sqlx-in-too-few-args", Partition: domain.PartitionBoundary,
			Invoke: harness.Call(func() (string, error) {
				q, _, err := sqlx.In("SELECT * FROM t WHERE id IN (?) AND b = ?", []int{1})
				return q, err
			}),
			Expect: harness.Fails(harness.KindInvalidArgument, "number of bindVars exceeds arguments"),
		},
		{
			Suite: suite, Name: "sqlx-rebind-dollar", Partition: domain.PartitionHappy,
			Invoke: harness.CallValue(func() string { return sqlx.Rebind(sqlx.DOLLAR, "a = ? AND b = ?") }),
			Expect: harness.Returns("a = $1 AND b = $2"),
		},
		{
			Suite: suite, Name: "sqlx-named-from-map", Partition: domain.PartitionHappy,
			Invoke: harness.Call(func() (string, error) {
				q, _, err := sqlx.Named("INSERT INTO t (a) VALUES (:a)", map[string]any{"a": 1})
				return q, err
			}),
			Expect: harness.Returns("INSERT INTO t (a) VALUES (?)"),
		},
		{
			Suite: suite, Name: "sqlx-named-missing-key", Partition: domain.PartitionMalformed,
			Invoke: harness.Call(func() (string, error) {
				q, _, err := sqlx.Named("INSERT INTO t (a) VALUES (:a)", map[string]any{})
				return q, err
			}),
			Expect: harness.Fails(harness.KindNotFound, "could not find name a"),
		},
	}
}
