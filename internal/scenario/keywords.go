package scenario

import "regexp"

// Таблицы ключевых слов и регулярных выражений для эвристической
// классификации. Списки фиксированные: тесты и воспроизводимость
// классификации зависят от их точного содержимого, поэтому менять их
// можно только вместе с тестами.

// historicalKeywords - маркеры исторических сценариев.
// Проверяются первыми: историческая специфика сильнее личных местоимений.
var historicalKeywords = []string{
	"napoleon", "roman", "rome", "world war", "battle of", "dynasty",
	"century", "medieval", "ancient", "empire", "revolution", "civil war",
	"cold war", "viking", "pharaoh", "renaissance", "industrial revolution",
	"extinct", "dinosaur", "prehistoric",
}

// firstPersonPattern - местоимения первого лица по границам слов.
var firstPersonPattern = regexp.MustCompile(`\b(i|me|my|myself)\b`)

// personalKeywords - маркеры сценариев из личной жизни.
var personalKeywords = []string{
	"family", "home", "marriage", "pet", "school", "friend", "parents",
	"relationship", "hobby", "neighbor", "wedding", "vacation", "apartment",
	"childhood",
}

// professionalKeywords - маркеры рабочих/деловых сценариев.
var professionalKeywords = []string{
	"company", "companies", "meeting", "salary", "deadline", "office",
	"boss", "coworker", "colleague", "promotion", "work week", "workplace",
	"business", "startup", "industry", "hiring", "manager", "employee",
}

// actorPatterns - категории действующих лиц, сканируются по порядку.
// Порядок фиксирован: он определяет порядок актеров в результате.
var actorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(everyone|everybody|people|person|humans?|society|citizens)\b`),
	regexp.MustCompile(`\b(government|president|politicians?|congress|parliament|mayors?|senators?)\b`),
	regexp.MustCompile(`\b(compan(?:y|ies)|corporations?|businesses|organizations?|schools?|universit(?:y|ies)|banks?)\b`),
	regexp.MustCompile(`\b(famil(?:y|ies)|parents?|mothers?|fathers?|children|kids?|brothers?|sisters?)\b`),
	regexp.MustCompile(`\b(humanity|mankind|civilization|nations?|countr(?:y|ies))\b`),
	regexp.MustCompile(`\b(animals?|dogs?|cats?|birds?|dinosaurs?|whales?|insects?)\b`),
	regexp.MustCompile(`\b(doctors?|teachers?|scientists?|engineers?|lawyers?|artists?|farmers?|workers?)\b`),
	regexp.MustCompile(`\b(robots?|computers?|machines?|aliens?)\b`),
}

// actionPatterns - категории действий, сканируются по порядку.
var actionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:could|would|should|might|must|can) \w+`),
	regexp.MustCompile(`\b(changed?|changing|became|become|turned|transform(?:ed|s)?|switch(?:ed)?|shift(?:ed)?)\b`),
	regexp.MustCompile(`\b(created?|built|builds?|destroy(?:ed)?|invent(?:ed)?|eliminated?|erased?|vanish(?:ed)?|disappear(?:ed)?)\b`),
	regexp.MustCompile(`\b(decided?|chose|choose|agreed?|refused?|voted?|banned?|adopted?)\b`),
	regexp.MustCompile(`\b(bought|buy|sold|sell|paid|pay|traded?|invest(?:ed)?|earn(?:ed)?|spent|spend)\b`),
	regexp.MustCompile(`\b(moved?|traveled?|flew|fly|migrated?|arrived?|left|escaped?|went)\b`),
	regexp.MustCompile(`\b(learn(?:ed)?|stud(?:y|ied)|discover(?:ed)?|taught|teach|solved?)\b`),
	regexp.MustCompile(`\b(married|marry|met|meet|dated?|divorced?|befriend(?:ed)?|loved?)\b`),
}

// complexKeywords - маркеры высокой сложности сценария.
// Каждое найденное слово добавляет 3 очка.
var complexKeywords = []string{
	"economy", "economic", "global", "consequences", "restructure",
	"infrastructure", "ecosystem", "geopolitical", "climate", "pandemic",
	"civilization", "international", "systemic", "governance", "collapse",
	"transformation", "worldwide", "institutions", "supply chain", "migration",
}

// moderateKeywords - маркеры средней сложности.
// Учитываются только когда не найдено ни одного complex-слова,
// чтобы не считать одну и ту же тему дважды.
var moderateKeywords = []string{
	"career", "technology", "superpowers", "education", "community",
	"environment", "industry", "culture", "communication", "transportation",
	"energy", "health", "lifestyle", "tradition", "innovation",
}

// connectorPattern - союзы-коннекторы, признак составного сценария.
var connectorPattern = regexp.MustCompile(`\b(and|or|but|however|while|although|because|since)\b`)
