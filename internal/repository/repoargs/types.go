package repoargs

type RepositoryName string

const (
	UserRepoName     RepositoryName = "user"
	LedgerRepoName   RepositoryName = "ledger"
	ProposalRepoName RepositoryName = "proposal"
	PurchaseRepoName RepositoryName = "purchase"
	ItemRepoName     RepositoryName = "item"
)
