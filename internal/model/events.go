package model

// Event names emitted by the Staking and RewardsManager contracts.
const (
	EventStakeDeposited              = "StakeDeposited"
	EventStakeLocked                 = "StakeLocked"
	EventStakeWithdrawn              = "StakeWithdrawn"
	EventStakeSlashed                = "StakeSlashed"
	EventStakeDelegated              = "StakeDelegated"
	EventStakeDelegatedLocked        = "StakeDelegatedLocked"
	EventStakeDelegatedWithdrawn     = "StakeDelegatedWithdrawn"
	EventAllocationCreated           = "AllocationCreated"
	EventAllocationCollected         = "AllocationCollected"
	EventAllocationClosed            = "AllocationClosed"
	EventRebateClaimed               = "RebateClaimed"
	EventDelegationParametersUpdated = "DelegationParametersUpdated"
	EventRewardsAssigned             = "RewardsAssigned"
)

// Token amounts are base-unit integers rendered as decimal strings.

// StakeDepositedData is the decoded StakeDeposited payload.
type StakeDepositedData struct {
	Indexer string `json:"indexer"`
	Tokens  string `json:"tokens"`
}

// StakeLockedData is the decoded StakeLocked payload.
type StakeLockedData struct {
	Indexer string `json:"indexer"`
	Tokens  string `json:"tokens"`
	Until   string `json:"until"`
}

// StakeWithdrawnData is the decoded StakeWithdrawn payload.
type StakeWithdrawnData struct {
	Indexer string `json:"indexer"`
	Tokens  string `json:"tokens"`
}

// StakeSlashedData is the decoded StakeSlashed payload.
type StakeSlashedData struct {
	Indexer     string `json:"indexer"`
	Tokens      string `json:"tokens"`
	Reward      string `json:"reward"`
	Beneficiary string `json:"beneficiary"`
}

// StakeDelegatedData is the decoded StakeDelegated payload.
type StakeDelegatedData struct {
	Indexer   string `json:"indexer"`
	Delegator string `json:"delegator"`
	Tokens    string `json:"tokens"`
	Shares    string `json:"shares"`
}

// StakeDelegatedLockedData is the decoded StakeDelegatedLocked payload.
type StakeDelegatedLockedData struct {
	Indexer   string `json:"indexer"`
	Delegator string `json:"delegator"`
	Tokens    string `json:"tokens"`
	Shares    string `json:"shares"`
	Until     string `json:"until"`
}

// StakeDelegatedWithdrawnData is the decoded StakeDelegatedWithdrawn payload.
type StakeDelegatedWithdrawnData struct {
	Indexer   string `json:"indexer"`
	Delegator string `json:"delegator"`
	Tokens    string `json:"tokens"`
}

// AllocationCreatedData is the decoded AllocationCreated payload.
type AllocationCreatedData struct {
	Indexer              string `json:"indexer"`
	SubgraphDeploymentID string `json:"subgraph_deployment_id"`
	Epoch                string `json:"epoch"`
	Tokens               string `json:"tokens"`
	AllocationID         string `json:"allocation_id"`
	Metadata             string `json:"metadata"`
}

// AllocationCollectedData is the decoded AllocationCollected payload.
type AllocationCollectedData struct {
	Indexer              string `json:"indexer"`
	SubgraphDeploymentID string `json:"subgraph_deployment_id"`
	Epoch                string `json:"epoch"`
	Tokens               string `json:"tokens"`
	AllocationID         string `json:"allocation_id"`
	From                 string `json:"from"`
	CurationFees         string `json:"curation_fees"`
	RebateFees           string `json:"rebate_fees"`
}

// AllocationClosedData is the decoded AllocationClosed payload.
type AllocationClosedData struct {
	Indexer              string `json:"indexer"`
	SubgraphDeploymentID string `json:"subgraph_deployment_id"`
	Epoch                string `json:"epoch"`
	Tokens               string `json:"tokens"`
	AllocationID         string `json:"allocation_id"`
	EffectiveAllocation  string `json:"effective_allocation"`
	Sender               string `json:"sender"`
	POI                  string `json:"poi"`
	IsDelegator          bool   `json:"is_delegator"`
}

// RebateClaimedData is the decoded RebateClaimed payload.
type RebateClaimedData struct {
	Indexer                   string `json:"indexer"`
	SubgraphDeploymentID      string `json:"subgraph_deployment_id"`
	AllocationID              string `json:"allocation_id"`
	Epoch                     string `json:"epoch"`
	ForEpoch                  string `json:"for_epoch"`
	Tokens                    string `json:"tokens"`
	UnclaimedAllocationsCount string `json:"unclaimed_allocations_count"`
	DelegationFees            string `json:"delegation_fees"`
}

// DelegationParametersUpdatedData is the decoded DelegationParametersUpdated payload.
// Cuts are expressed in millionths.
type DelegationParametersUpdatedData struct {
	Indexer           string `json:"indexer"`
	IndexingRewardCut uint32 `json:"indexing_reward_cut"`
	QueryFeeCut       uint32 `json:"query_fee_cut"`
	CooldownBlocks    uint32 `json:"cooldown_blocks"`
}

// RewardsAssignedData is the decoded RewardsAssigned payload.
type RewardsAssignedData struct {
	Indexer      string `json:"indexer"`
	AllocationID string `json:"allocation_id"`
	Epoch        string `json:"epoch"`
	Amount       string `json:"amount"`
}
