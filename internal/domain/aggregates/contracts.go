package aggregates

type WriteTxOwnership string

// WriteTxOwnedByAggregate: the aggregate opens and commits its own transaction.
// Callers must not pass one in.
const WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"

type ReadPolicy string

const (
	// ReadPolicyInvariantScoped: the aggregate reads only what its checks need.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
	// ReadPolicyTableRepoQueries: listing and detail reads go straight to table repos.
	ReadPolicyTableRepoQueries ReadPolicy = "table_repo_queries"
)

// Contract documents what an aggregate owns and which checks it runs before commit.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Tables           []string
	Guards           []string
}

type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}
