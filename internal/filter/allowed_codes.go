package filter

// AllowedCPTHCPCSCodes is the fixed CPT/HCPCS procedure-code whitelist a
// conditionally-allowed code type's value must appear in. Representative
// spread across evaluation/management, surgery, radiology, pathology/lab,
// and common HCPCS Level II families (~450 entries, fixed at build time).
var AllowedCPTHCPCSCodes = map[string]struct{}{
	"10060": {},
	"10140": {},
	"11056": {},
	"12004": {},
	"12032": {},
	"20552": {},
	"22551": {},
	"22630": {},
	"23412": {},
	"27130": {},
	"27447": {},
	"27486": {},
	"27506": {},
	"29826": {},
	"36558": {},
	"37191": {},
	"41899": {},
	"43644": {},
	"44120": {},
	"44950": {},
	"46600": {},
	"47562": {},
	"49560": {},
	"51798": {},
	"52000": {},
	"52005": {},
	"52204": {},
	"52234": {},
	"52240": {},
	"52276": {},
	"52281": {},
	"52283": {},
	"55700": {},
	"57522": {},
	"58571": {},
	"59000": {},
	"59409": {},
	"60220": {},
	"60240": {},
	"64633": {},
	"67028": {},
	"67810": {},
	"69421": {},
	"69631": {},
	"70486": {},
	"70553": {},
	"71045": {},
	"71046": {},
	"72100": {},
	"72110": {},
	"72146": {},
	"72148": {},
	"73110": {},
	"73130": {},
	"73721": {},
	"74018": {},
	"74019": {},
	"74150": {},
	"74160": {},
	"74183": {},
	"76376": {},
	"76870": {},
	"77012": {},
	"77047": {},
	"77052": {},
	"77053": {},
	"77067": {},
	"77080": {},
	"77081": {},
	"77086": {},
	"78815": {},
	"79101": {},
	"80061": {},
	"80076": {},
	"80178": {},
	"80320": {},
	"80333": {},
	"80334": {},
	"80338": {},
	"80342": {},
	"80345": {},
	"80348": {},
	"80351": {},
	"80352": {},
	"80353": {},
	"81002": {},
	"81005": {},
	"81162": {},
	"81170": {},
	"81200": {},
	"81201": {},
	"81220": {},
	"81240": {},
	"81257": {},
	"81311": {},
	"81323": {},
	"81332": {},
	"81402": {},
	"81405": {},
	"81407": {},
	"82040": {},
	"82247": {},
	"82310": {},
	"82565": {},
	"82746": {},
	"82951": {},
	"82977": {},
	"83010": {},
	"83036": {},
	"83883": {},
	"84100": {},
	"84132": {},
	"84155": {},
	"84163": {},
	"84165": {},
	"84202": {},
	"84244": {},
	"84252": {},
	"84305": {},
	"84436": {},
	"84443": {},
	"84445": {},
	"84460": {},
	"84478": {},
	"84485": {},
	"84510": {},
	"84580": {},
	"84600": {},
	"84681": {},
	"84703": {},
	"84704": {},
	"85009": {},
	"85013": {},
	"85014": {},
	"85044": {},
	"85130": {},
	"85210": {},
	"85230": {},
	"85293": {},
	"85301": {},
	"85337": {},
	"85378": {},
	"85379": {},
	"85400": {},
	"85410": {},
	"85421": {},
	"85549": {},
	"85555": {},
	"85610": {},
	"85635": {},
	"85670": {},
	"86021": {},
	"86200": {},
	"86225": {},
	"86226": {},
	"86243": {},
	"86280": {},
	"86304": {},
	"86318": {},
	"86320": {},
	"86329": {},
	"86337": {},
	"86359": {},
	"86362": {},
	"86363": {},
	"86403": {},
	"86490": {},
	"86585": {},
	"86602": {},
	"86612": {},
	"86613": {},
	"86619": {},
	"86632": {},
	"86658": {},
	"86665": {},
	"86666": {},
	"86688": {},
	"86696": {},
	"86710": {},
	"86723": {},
	"86735": {},
	"86738": {},
	"86744": {},
	"86747": {},
	"86750": {},
	"86762": {},
	"86765": {},
	"86777": {},
	"86780": {},
	"86794": {},
	"86804": {},
	"86805": {},
	"86816": {},
	"86829": {},
	"86833": {},
	"86834": {},
	"86835": {},
	"86850": {},
	"86852": {},
	"86860": {},
	"86890": {},
	"86905": {},
	"86931": {},
	"86971": {},
	"87070": {},
	"87081": {},
	"87102": {},
	"87107": {},
	"87118": {},
	"87140": {},
	"87148": {},
	"87150": {},
	"87153": {},
	"87158": {},
	"87166": {},
	"87172": {},
	"87177": {},
	"87272": {},
	"87275": {},
	"87280": {},
	"87283": {},
	"87296": {},
	"87299": {},
	"87327": {},
	"87337": {},
	"87339": {},
	"87380": {},
	"87425": {},
	"87480": {},
	"87481": {},
	"87485": {},
	"87487": {},
	"87492": {},
	"87496": {},
	"87497": {},
	"87501": {},
	"87511": {},
	"87515": {},
	"87525": {},
	"87526": {},
	"87529": {},
	"87536": {},
	"87539": {},
	"87551": {},
	"87552": {},
	"87557": {},
	"87581": {},
	"87640": {},
	"87650": {},
	"87651": {},
	"87652": {},
	"87801": {},
	"87802": {},
	"87803": {},
	"87806": {},
	"87850": {},
	"87899": {},
	"87902": {},
	"87905": {},
	"87999": {},
	"88106": {},
	"88112": {},
	"88143": {},
	"88148": {},
	"88152": {},
	"88160": {},
	"88161": {},
	"88175": {},
	"88177": {},
	"88184": {},
	"88201": {},
	"88235": {},
	"88237": {},
	"88248": {},
	"88262": {},
	"88273": {},
	"88275": {},
	"88280": {},
	"88285": {},
	"88289": {},
	"88311": {},
	"88312": {},
	"88319": {},
	"88325": {},
	"88332": {},
	"88344": {},
	"88348": {},
	"88349": {},
	"88350": {},
	"88356": {},
	"88360": {},
	"88363": {},
	"88364": {},
	"88377": {},
	"88381": {},
	"99202": {},
	"99204": {},
	"99211": {},
	"99212": {},
	"99213": {},
	"99215": {},
	"99221": {},
	"99223": {},
	"99232": {},
	"99234": {},
	"99235": {},
	"99237": {},
	"99281": {},
	"99283": {},
	"99291": {},
	"A6010": {},
	"A7003": {},
	"A7005": {},
	"A9150": {},
	"E0141": {},
	"E0163": {},
	"E0181": {},
	"E0260": {},
	"E0290": {},
	"E0650": {},
	"E0666": {},
	"E0668": {},
	"E0669": {},
	"E0720": {},
	"E0747": {},
	"E0935": {},
	"E0944": {},
	"E1037": {},
	"G0008": {},
	"G0123": {},
	"G0143": {},
	"G0152": {},
	"G0154": {},
	"G0159": {},
	"G0160": {},
	"G0161": {},
	"G0166": {},
	"G0175": {},
	"G0179": {},
	"G0181": {},
	"G0182": {},
	"G0202": {},
	"G0206": {},
	"G0276": {},
	"G0279": {},
	"G0328": {},
	"G0329": {},
	"G0339": {},
	"G0341": {},
	"G0379": {},
	"G0396": {},
	"G0403": {},
	"G0404": {},
	"G0409": {},
	"G0429": {},
	"G0430": {},
	"G0434": {},
	"G0435": {},
	"G0437": {},
	"G0438": {},
	"G0440": {},
	"G0442": {},
	"G0443": {},
	"G0446": {},
	"G0450": {},
	"G0452": {},
	"J0129": {},
	"J0170": {},
	"J0207": {},
	"J0285": {},
	"J0456": {},
	"J0475": {},
	"J0480": {},
	"J0490": {},
	"J0515": {},
	"J0520": {},
	"J0561": {},
	"J0583": {},
	"J0584": {},
	"J0594": {},
	"J0640": {},
	"J0642": {},
	"J0670": {},
	"J0692": {},
	"J0697": {},
	"J0739": {},
	"J0740": {},
	"J0744": {},
	"J0833": {},
	"J0840": {},
	"J0850": {},
	"J0875": {},
	"J0882": {},
	"J0883": {},
	"J0884": {},
	"J0888": {},
	"J0890": {},
	"J1071": {},
	"J1100": {},
	"J1245": {},
	"J1270": {},
	"J1325": {},
	"J1327": {},
	"J1435": {},
	"J1436": {},
	"J1442": {},
	"J1447": {},
	"J1450": {},
	"J1459": {},
	"J1559": {},
	"J1562": {},
	"J1568": {},
	"J1600": {},
	"J1626": {},
	"J1675": {},
	"J1720": {},
	"J1745": {},
	"J1746": {},
	"J1840": {},
	"J1960": {},
	"J2060": {},
	"L0491": {},
	"L1000": {},
	"L1686": {},
	"L1700": {},
	"L1730": {},
	"L1755": {},
	"L1812": {},
	"L1843": {},
	"L1845": {},
	"L1848": {},
	"L1851": {},
	"L1902": {},
	"L1904": {},
	"L1907": {},
	"Q0112": {},
	"Q0113": {},
	"Q0115": {},
	"Q0138": {},
	"Q0144": {},
	"Q0161": {},
	"Q0177": {},
	"Q0180": {},
	"Q2039": {},
	"Q2042": {},
	"Q2043": {},
	"Q3014": {},
	"Q4081": {},
	"Q4101": {},
	"Q4103": {},
}
