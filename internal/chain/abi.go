package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// registryABIJSON is the research registry interface. Writes go through
// createResearch / updateResearchVersion / contribute / citeResearch; reads
// through the researches mapping and getUserResearches.
const registryABIJSON = `[
  {"type":"constructor","inputs":[{"name":"admin","type":"address"}]},
  {"type":"function","name":"createResearch","stateMutability":"nonpayable",
   "inputs":[
     {"name":"title","type":"string"},
     {"name":"ipfsHash","type":"string"},
     {"name":"description","type":"string"},
     {"name":"requiredStake","type":"uint256"},
     {"name":"owner","type":"address"}],
   "outputs":[{"name":"id","type":"uint256"}]},
  {"type":"function","name":"updateResearchVersion","stateMutability":"nonpayable",
   "inputs":[
     {"name":"id","type":"uint256"},
     {"name":"ipfsHash","type":"string"}],
   "outputs":[]},
  {"type":"function","name":"contribute","stateMutability":"payable",
   "inputs":[{"name":"id","type":"uint256"}],
   "outputs":[]},
  {"type":"function","name":"citeResearch","stateMutability":"nonpayable",
   "inputs":[{"name":"id","type":"uint256"}],
   "outputs":[]},
  {"type":"function","name":"researches","stateMutability":"view",
   "inputs":[{"name":"id","type":"uint256"}],
   "outputs":[
     {"name":"id","type":"uint256"},
     {"name":"title","type":"string"},
     {"name":"ipfsHash","type":"string"},
     {"name":"description","type":"string"},
     {"name":"owner","type":"address"},
     {"name":"isActive","type":"bool"},
     {"name":"contributorCount","type":"uint256"},
     {"name":"citationCount","type":"uint256"},
     {"name":"requiredStake","type":"uint256"},
     {"name":"currentVersion","type":"uint256"}]},
  {"type":"function","name":"getUserResearches","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"}],
   "outputs":[{"name":"ids","type":"uint256[]"}]},
  {"type":"event","name":"ResearchCreated","anonymous":false,
   "inputs":[
     {"name":"id","type":"uint256","indexed":true},
     {"name":"owner","type":"address","indexed":true},
     {"name":"ipfsHash","type":"string","indexed":false}]},
  {"type":"event","name":"ResearchVersionUpdated","anonymous":false,
   "inputs":[
     {"name":"id","type":"uint256","indexed":true},
     {"name":"version","type":"uint256","indexed":false},
     {"name":"ipfsHash","type":"string","indexed":false}]}
]`

// RegistryABI is the parsed registry interface.
var RegistryABI = mustParseABI(registryABIJSON)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("chain: invalid registry ABI: " + err.Error())
	}
	return parsed
}
